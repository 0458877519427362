package cli

import (
	"runtime/debug"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	goutils "go.viam.com/utils"

	"github.com/markerseg/markerseg/config"
	"github.com/markerseg/markerseg/logging"
)

// segClient carries what every command needs: the loaded configuration and a logger.
type segClient struct {
	conf   *config.Config
	logger logging.Logger
}

func newSegClient(c *cli.Context) (*segClient, error) {
	conf := config.Default()
	if path := c.String(configFlag); path != "" {
		var err error
		if conf, err = config.Read(path); err != nil {
			return nil, err
		}
	}

	var logger logging.Logger
	if c.Bool(debugFlag) {
		logger = logging.NewDebugLogger("markerseg")
	} else {
		logger = logging.NewLogger("markerseg")
		if conf.LogLevel != "" {
			level, err := logging.LevelFromString(conf.LogLevel)
			if err != nil {
				return nil, err
			}
			logger.SetLevel(level)
		}
	}
	if conf.ConfigFilePath != "" {
		logger.Debugw("loaded config", "path", conf.ConfigFilePath)
	}
	return &segClient{conf: conf, logger: logger}, nil
}

func (c *segClient) close() {
	goutils.UncheckedError(c.logger.Sync())
}

// positionalArgs returns exactly n positional arguments or an error naming the expected usage.
func positionalArgs(c *cli.Context, n int) ([]string, error) {
	if c.Args().Len() != n {
		return nil, errors.Errorf("%s expects %d arguments (%s) but got %d",
			c.Command.Name, n, c.Command.ArgsUsage, c.Args().Len())
	}
	return c.Args().Slice(), nil
}

type versionOutput struct {
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
}

// VersionAction is the corresponding Action for 'version'.
func VersionAction(c *cli.Context) error {
	return runAction(c, (*segClient).versionAction)
}

func (c *segClient) versionAction(_ *cli.Context) (interface{}, error) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return nil, errors.New("error reading build info")
	}
	version := info.Main.Version
	if version == "" || version == "(devel)" {
		version = "dev"
	}
	return versionOutput{Version: version, GoVersion: info.GoVersion}, nil
}
