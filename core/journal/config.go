package journal

// Driver names accepted by Connect.
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// Config holds configuration for the run journal database.
type Config struct {
	// Enabled toggles run journaling entirely.
	Enabled bool `mapstructure:"enabled" default:"true"`
	// Driver is the database driver (sqlite, mysql).
	Driver string `mapstructure:"driver" default:"sqlite"`
	// Path is the SQLite database file.
	Path string `mapstructure:"path" default:"registrator.db"`
	// Host is the database host (mysql only).
	Host string `mapstructure:"host" default:"localhost"`
	// Port is the database port (mysql only).
	Port int `mapstructure:"port" default:"3306"`
	// User is the database user (mysql only).
	User string `mapstructure:"user" default:"root"`
	// Password is the database password (mysql only).
	Password string `mapstructure:"password" default:""`
	// Name is the database name (mysql only).
	Name string `mapstructure:"name" default:"registrator"`
	// TimeoutSeconds is the connection timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
