package admin

// Config holds module-level settings. Component configs (mongo, email, jwt
// signing, secret encryption) are loaded separately by their packages.
type Config struct {
	AppName  string `env:"APP_NAME" envDefault:"Mento"`
	BaseURL  string `env:"BASE_URL,required"`
	Database string `env:"MONGODB_DATABASE" envDefault:"admin"`

	// EmailDevDir switches outbound mail to the file-based development
	// sender when set.
	EmailDevDir string `env:"EMAIL_DEV_DIR"`
}
