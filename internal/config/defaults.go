package config

const (
	// DefaultProjectPath is where platform detection starts walking upward
	DefaultProjectPath = "."
	// DefaultConfigFile is the test-runner configuration file
	DefaultConfigFile = "behat.yml"
	// DefaultProfile is the configuration profile to read suites from
	DefaultProfile = "default"
	// DefaultSuite is the suite whose parameters hold the database settings
	DefaultSuite = "default"
	// DefaultMySQLBinary is the command-line database client
	DefaultMySQLBinary = "mysql"
	// DefaultReportFile is the setup report file name
	DefaultReportFile = "db-setup.json"
	// DefaultReportDir is the directory the setup report is stored in
	DefaultReportDir = "storage"
	// DefaultLogLevel is the logrus level used when none is given
	DefaultLogLevel = "warning"
	// DefaultEnvFile holds optional connection overrides
	DefaultEnvFile = ".env"
)
