package service

import "fmt"

func magicLinkEmailTemplate(magicURL, appName string) (string, string) {
	subject := fmt.Sprintf("Sign in to %s", appName)
	body := fmt.Sprintf(`Click this link to sign in and log your workouts:
%s

This link expires in 10 minutes and can only be used once.

If you didn't request this, ignore this email.

Keep moving,
The %s Team`, magicURL, appName)

	return subject, body
}

func welcomeEmailTemplate(name, dashboardURL, appName string) (string, string) {
	subject := fmt.Sprintf("Welcome to %s!", appName)
	body := fmt.Sprintf(`Hi %s,

Your account is ready. Log your first workout from the dashboard:
%s

Every session you record shows up in your daily totals, so you can see
how much time you put in day by day.

Keep moving,
The %s Team`, name, dashboardURL, appName)

	return subject, body
}

func forgotPasswordEmailTemplate(signInURL, appName string) (string, string) {
	subject := fmt.Sprintf("Reset your %s sign in", appName)
	body := fmt.Sprintf(`Someone asked to reset the password on your account.

Click this link to sign in. Your password will be removed and you can set a
new one from Settings:
%s

This link expires in 10 minutes and can only be used once.

If you didn't request this, ignore this email and your password stays as it is.

Keep moving,
The %s Team`, signInURL, appName)

	return subject, body
}

func emailChangeVerificationTemplate(name, verifyURL, appName string) (string, string) {
	subject := fmt.Sprintf("Confirm your new %s email address", appName)
	body := fmt.Sprintf(`Hi %s,

Confirm this address for your account by opening:
%s

Until you do, sign-in links keep going to your current address.

Keep moving,
The %s Team`, greetingName(name), verifyURL, appName)

	return subject, body
}

func emailChangeNotificationTemplate(name, newEmail, appName string) (string, string) {
	subject := fmt.Sprintf("Your %s email address is changing", appName)
	body := fmt.Sprintf(`Hi %s,

A change of your account email to %s was requested. It takes effect once the
new address is confirmed.

If this wasn't you, sign in and change your password.

Keep moving,
The %s Team`, greetingName(name), newEmail, appName)

	return subject, body
}

func accountDeletedEmailTemplate(name, appName string) (string, string) {
	subject := fmt.Sprintf("Your %s account was deleted", appName)
	body := fmt.Sprintf(`Hi %s,

Your account and every workout you logged have been deleted.

Thanks for training with us.
The %s Team`, greetingName(name), appName)

	return subject, body
}

func greetingName(name string) string {
	if name == "" {
		return "there"
	}
	return name
}
