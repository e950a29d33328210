package service

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// buildEmail 按 destiny 渲染邮件，params 里缺字段按空串处理
func (s *NotificationService) buildEmail(destiny string, params map[string]string) (*gomail.Message, error) {
	name := params["name"]
	userEmail := params["user_email"]
	token := params["token"]

	msg := gomail.NewMessage()
	msg.SetHeader("From", s.cfg.SMTP.User)

	switch destiny {
	case DestinyApproval:
		msg.SetHeader("To", userEmail)
		msg.SetHeader("Subject", "Registration request")
		msg.SetBody("text/html", fmt.Sprintf(
			"<div><h1>Hello, %s</h1>"+
				"<p>We received your registration request. An administrator will review it shortly and you will get a reply.</p></div>",
			name))

	case DestinyAccept:
		msg.SetHeader("To", userEmail)
		msg.SetHeader("Subject", "Registration request")
		msg.SetBody("text/html", fmt.Sprintf(
			"<div><h1>Hello, %s</h1>"+
				"<p>Your registration request has been approved! Follow the <b>link</b> to verify your account.<br>The link is valid for 24 hours.</p>"+
				"<p>https://%s/logIn?token=%s</p></div>",
			name, s.cfg.ServerDomain, token))

	case DestinyReject:
		msg.SetHeader("To", userEmail)
		msg.SetHeader("Subject", "Registration request")
		msg.SetBody("text/html", fmt.Sprintf(
			"<div><h1>Hello, %s</h1><p>Your registration request has been rejected.</p></div>",
			name))

	case DestinyForgot:
		msg.SetHeader("To", userEmail)
		msg.SetHeader("Subject", "Password reset")
		msg.SetBody("text/html", fmt.Sprintf(
			"<div><h1>Hello, %s</h1>"+
				"<p>Follow the <b>link</b> to reset your password.</p>"+
				"<p>https://%s/reset_password?token=%s</p></div>",
			name, s.cfg.ServerDomain, token))

	case DestinyAdminApproval:
		msg.SetHeader("To", s.cfg.Admin.Email)
		msg.SetHeader("Subject", "New registration request")
		msg.SetBody("text/html", fmt.Sprintf(
			"<div><h1>Dear administrator,</h1>"+
				"<p>A new registration request has arrived:</p>"+
				"<table border=\"1\" cellpadding=\"5\" cellspacing=\"0\">"+
				"<tr><th>Name</th><th>Surname</th><th>Email</th></tr>"+
				"<tr><td>%s</td><td>%s</td><td>%s</td></tr></table></div>",
			name, params["surname"], userEmail))

	case DestinyQATimeLimit:
		msg.SetHeader("To", s.cfg.Admin.Email)
		msg.SetHeader("Subject", "QA latency threshold exceeded")
		msg.SetBody("text/html", fmt.Sprintf(
			"<div><p>An answer lookup took %s seconds (request #%s, document %s).</p></div>",
			params["total_time"], params["request_id"], params["doc_name"]))

	case DestinyTestTimeLimit:
		msg.SetHeader("To", s.cfg.Admin.Email)
		msg.SetHeader("Subject", "Quiz generation latency threshold exceeded")
		msg.SetBody("text/html", fmt.Sprintf(
			"<div><p>A quiz generation took %s seconds (request #%s, document %s).</p></div>",
			params["total_time"], params["request_id"], params["doc_name"]))

	case DestinyTokenLimit:
		msg.SetHeader("To", s.cfg.Admin.Email)
		msg.SetHeader("Subject", "Daily token limit crossed")
		msg.SetBody("text/html", fmt.Sprintf(
			"<div><p>User #%s has crossed the daily token limit (%s tokens used today).</p></div>",
			params["user_id"], params["tokens"]))

	default:
		return nil, fmt.Errorf("unknown email destiny: %s", destiny)
	}

	return msg, nil
}
