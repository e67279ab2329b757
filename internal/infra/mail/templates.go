package mail

import (
	"fmt"
	"html"
)

const layout = `<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<title>%s</title>
</head>
<body style="font-family: Arial, sans-serif; background-color: #f4f7f2; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 24px; border-radius: 10px;">
		%s
		<p style="margin-top: 30px; color: #555;">
			Happy planting,<br>
			<strong>The Plant Store team</strong>
		</p>
	</div>
</body>
</html>`

// OTPEmailHTML は認証コードのメール本文
func OTPEmailHTML(name, code string) string {
	body := fmt.Sprintf(`
		<h2 style="color: #2f6b3a;">Verify your account</h2>
		<p>Hello %s,</p>
		<p>Your verification code is:</p>
		<p style="font-size: 28px; font-weight: bold; letter-spacing: 6px; color: #2f6b3a;">%s</p>
		<p>This code expires in 10 minutes. If you did not sign up, you can ignore this e-mail.</p>`,
		html.EscapeString(name), html.EscapeString(code))
	return fmt.Sprintf(layout, "Verify your account", body)
}

// ResetPasswordEmailHTML はパスワード再設定リンクのメール本文
func ResetPasswordEmailHTML(name, resetURL string) string {
	u := html.EscapeString(resetURL)
	body := fmt.Sprintf(`
		<h2 style="color: #2f6b3a;">Reset your password</h2>
		<p>Hello %s,</p>
		<p>Click the link below to choose a new password. The link expires in 15 minutes.</p>
		<p><a href="%s" style="background-color: #2f6b3a; color: white; padding: 10px 18px; border-radius: 6px; text-decoration: none;">Reset password</a></p>
		<p style="color: #777; font-size: 12px;">%s</p>`,
		html.EscapeString(name), u, u)
	return fmt.Sprintf(layout, "Reset your password", body)
}
