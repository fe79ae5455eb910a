package mint

// Application is the application resource scoped to a developer
type Application struct {
	DeveloperEmail string
	client         *Client
}

func newApplication(email string, client *Client) *Application {
	return &Application{DeveloperEmail: email, client: client}
}
