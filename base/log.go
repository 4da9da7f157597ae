package base

import (
	"fmt"
	"os"
	"strings"

	"bytepower_keyspace/base/log"
	"bytepower_keyspace/utility"
)

// parseLogger builds the logger called name from its yaml section, e.g.
//
//	server:
//	  console: {level: info, format: text}
//	  file: {level: debug, location: /var/log/keyspace.{pid}.log, rotation: {max_size: 100}}
func parseLogger(name string, cfg map[string]interface{}) (*log.Logger, error) {
	var outputs []log.Output
	for k, v := range cfg {
		vs := utility.AnyToAnyMap(v)
		if vs == nil && v != nil {
			return nil, fmt.Errorf("'log.%s.%v' should be map", name, k)
		}
		format := parseFormat(vs)
		level := log.ParseLevel(utility.AnyToString(vs["level"]))
		switch k {
		case "console":
			outputs = append(outputs, log.NewConsoleOutput(name, format, level, utility.AnyToString(vs["stream"])))
		case "file":
			location := utility.AnyToString(vs["location"])
			if location == "" {
				return nil, fmt.Errorf("'log.%s.file.location' should not be empty", name)
			}
			location = strings.Replace(location, "{pid}", utility.AnyToString(os.Getpid()), 1)
			output, err := log.NewFileOutput(name, format, level, location, parseFileRotation(utility.AnyToAnyMap(vs["rotation"])))
			if err != nil {
				return nil, fmt.Errorf("'log.%s.file.rotation': %w", name, err)
			}
			outputs = append(outputs, output)
		default:
			return nil, fmt.Errorf("'log.%s.%v' unknown output type", name, k)
		}
	}
	return log.NewLogger(outputs...), nil
}

func parseFormat(cfg utility.AnyMap) log.Format {
	format := log.NewFormat(utility.AnyToString(cfg["format"]))
	if keys := utility.AnyToAnyMap(cfg["keys"]); keys != nil {
		format.CallerKey = utility.AnyToString(keys["caller"])
		format.TimeKey = utility.AnyToString(keys["time"])
		format.MessageKey = utility.AnyToString(keys["message"])
		format.LevelKey = utility.AnyToString(keys["level"])
		format.NameKey = utility.AnyToString(keys["name"])
	}
	if timeFormat, ok := cfg["time_format"].(string); ok {
		format.TimeFormat = timeFormat
	}
	return format
}

func parseFileRotation(cfg utility.AnyMap) log.FileRotation {
	return log.FileRotation{
		MaxSizeMB:   int(utility.AnyToInt64(cfg["max_size"])),
		MaxAgeDays:  int(utility.AnyToInt64(cfg["max_age"])),
		MaxBackups:  int(utility.AnyToInt64(cfg["max_backups"])),
		Compress:    utility.AnyToBool(cfg["compress"]),
		LocalTime:   utility.AnyToBool(cfg["localtime"]),
		RotateEvery: utility.AnyToString(cfg["rotate_every"]),
	}
}
