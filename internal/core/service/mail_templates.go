package service

import (
	"fmt"

	"github.com/staffdesk/admin-panel/internal/core/domain"
	"github.com/staffdesk/admin-panel/internal/core/ports"
)

func welcomeMail(identity *domain.Identity) ports.MailMessage {
	return ports.MailMessage{
		To:      identity.Email,
		Subject: "Welcome to the Admin Panel",
		HTML: fmt.Sprintf(
			"<h2>Welcome to the Admin Panel!</h2>"+
				"<p>Hello %s,</p>"+
				"<p>Your %s account has been created successfully.</p>"+
				"<p>Please change your password after first login.</p>",
			identity.Username, identity.Role),
	}
}

func resetCodeMail(identity *domain.Identity, code string) ports.MailMessage {
	return ports.MailMessage{
		To:      identity.Email,
		Subject: "Your Admin Panel Password Reset Code",
		HTML: fmt.Sprintf(
			"<h2>Password Reset Code</h2>"+
				"<p>Hello %s,</p>"+
				"<p>Your password reset code is:</p>"+
				"<div style=\"font-size:2em; font-weight:bold; letter-spacing:4px;\">%s</div>"+
				"<p>This code will expire in 10 minutes.</p>"+
				"<p>If you didn't request this, please ignore this email.</p>",
			identity.Username, code),
	}
}

func resetTokenMail(identity *domain.Identity, token string) ports.MailMessage {
	return ports.MailMessage{
		To:      identity.Email,
		Subject: "Your Admin Panel Password Reset Link",
		HTML: fmt.Sprintf(
			"<h2>Password Reset</h2>"+
				"<p>Hello %s,</p>"+
				"<p>Use this token to reset your password:</p>"+
				"<p><code>%s</code></p>"+
				"<p>The token expires in 10 minutes.</p>"+
				"<p>If you didn't request this, please ignore this email.</p>",
			identity.Username, token),
	}
}
