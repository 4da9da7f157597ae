// Command exec runs one command inside the configured namespace and prints
// the reply as JSON, e.g.
//
//	exec -c config.yaml -- hgetall user:1
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"bytepower_keyspace/base"
	"bytepower_keyspace/client"
	"bytepower_keyspace/commands"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/pflag"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var configPath = pflag.StringP("config", "c", "config.yaml", "config file path")
var prefix = pflag.StringP("prefix", "n", "", "namespace prefix, overrides namespace.prefix")
var timeout = pflag.DurationP("timeout", "t", 5*time.Second, "command timeout")

type reply struct {
	Type  commands.RESPType `json:"type"`
	Value interface{}       `json:"value,omitempty"`
}

func newReply(data commands.RESPData) reply {
	switch data.DataType {
	case commands.ErrorRespType:
		return reply{Type: data.DataType, Value: data.Err().Error()}
	case commands.ArrayRespType:
		items, _ := data.Value.([]commands.RESPData)
		values := make([]reply, 0, len(items))
		for _, item := range items {
			values = append(values, newReply(item))
		}
		return reply{Type: data.DataType, Value: values}
	default:
		return reply{Type: data.DataType, Value: data.Value}
	}
}

func parseAndCheckCommandOptions() error {
	pflag.Parse()
	if *configPath == "" {
		return errors.New("config is not set")
	}
	if pflag.NArg() == 0 {
		return errors.New("command is not set")
	}
	return nil
}

func run() error {
	if err := parseAndCheckCommandOptions(); err != nil {
		return fmt.Errorf("command options error: %w", err)
	}
	if err := base.InitServer(*configPath); err != nil {
		return err
	}
	defer base.Stop(context.Background())

	config := base.GetServerConfig()
	namespace := config.Namespace.Prefix
	if *prefix != "" {
		namespace = *prefix
	}
	dep := base.GetClientDependency()
	var options []client.Option
	if config.CommandInfo.Enabled {
		options = append(options, client.WithCommandInfoSource(
			commands.NewRedisCommandInfoSource(dep.Redis, config.CommandInfo.CacheExpiration()),
		))
	}
	builder := commands.NewBuilder(commands.WithKeyPrefix(commands.NewPrefix(namespace)))
	keyspaceClient, err := client.NewClient(builder, dep, options...)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	command, err := keyspaceClient.Parse(ctx, toArgs(pflag.Args()))
	if err != nil {
		return err
	}
	if config.Redis.IsCluster() {
		if err := commands.CheckClusterCommand(command); err != nil {
			return err
		}
	}
	data, err := keyspaceClient.RunCommand(ctx, command)
	if err != nil {
		return err
	}
	output, err := json.MarshalIndent(map[string]interface{}{
		"command": command.String(),
		"reply":   newReply(data),
	}, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(output))
	return nil
}

func toArgs(args []string) [][]byte {
	result := make([][]byte, 0, len(args))
	for _, arg := range args {
		result = append(result, []byte(arg))
	}
	return result
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
