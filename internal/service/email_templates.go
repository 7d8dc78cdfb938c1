package service

import "fmt"

func welcomeEmailTemplate(nickname, profileURL, appName string) (string, string) {
	subject := fmt.Sprintf("Welcome to %s!", appName)
	body := fmt.Sprintf(`Hi %s,

Your account is ready. Your profile lives at:
%s

You can change your nickname and tell people about yourself from the Edit page.

Best,
The %s Team`, nickname, profileURL, appName)

	return subject, body
}

func errorReportEmailTemplate(report ErrorReport, appName string) (string, string) {
	subject := fmt.Sprintf("%s failure", appName)
	body := fmt.Sprintf(`An unhandled error occurred.

Error:      %s
Method:     %s
Path:       %s
Request ID: %s
User ID:    %s
Time:       %s`,
		report.Err,
		report.Method,
		report.Path,
		report.RequestID,
		report.userID(),
		report.Time.UTC().Format("2006-01-02 15:04:05 MST"),
	)

	return subject, body
}
