package config

const (
	// ModeBuiltin runs the in-process collaborator.
	ModeBuiltin = "builtin"
	// ModeCommand shells out to the configured console command.
	ModeCommand = "command"
)

const (
	defaultWorkRoot        = "."
	defaultLogDir          = "~/.local/share/demoload/logs"
	defaultStoreFile       = "var/demoload.db"
	defaultUserAgent       = "demoload/dev"
	defaultConvertCommand  = "bin/console import:convert"
	defaultImportCommand   = "bin/console import:entities"
	defaultEntityNamespace = `App\Entity\`
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

var defaultDetailsCommands = []string{
	"bin/console state:iterate Official --marking=new --transition=fetch_wiki",
	"bin/console mess:stats",
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkRoot: defaultWorkRoot,
			LogDir:   defaultLogDir,
		},
		Fetch: Fetch{
			UserAgent: defaultUserAgent,
		},
		Convert: Convert{
			Mode:    ModeBuiltin,
			Command: defaultConvertCommand,
		},
		Import: Import{
			Mode:            ModeBuiltin,
			Command:         defaultImportCommand,
			EntityNamespace: defaultEntityNamespace,
		},
		Details: Details{
			Commands: append([]string(nil), defaultDetailsCommands...),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
