package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/patrickmn/go-cache"
)

// CommandInfoSource supplies specs for commands missing from the built-in table.
type CommandInfoSource interface {
	LookupCommand(ctx context.Context, name string) (CommandSpec, bool, error)
}

// commandInfoLoader is the part of a go-redis client that runs COMMAND.
type commandInfoLoader interface {
	Command(ctx context.Context) *redis.CommandsInfoCmd
}

var errMovableKeys = errors.New("ERR commands with movable keys are not supported")

// RedisCommandInfoSource reads key specs from the COMMAND reply of the
// upstream server and caches them. Keyless commands are never accepted, so a
// namespace can not reach data outside its prefix through them.
type RedisCommandInfoSource struct {
	loader commandInfoLoader
	cache  *cache.Cache
}

type cachedCommandSpec struct {
	spec  CommandSpec
	found bool
	err   error
}

func NewRedisCommandInfoSource(loader commandInfoLoader, expiration time.Duration) *RedisCommandInfoSource {
	return &RedisCommandInfoSource{
		loader: loader,
		cache:  cache.New(expiration, 2*expiration),
	}
}

func (source *RedisCommandInfoSource) LookupCommand(ctx context.Context, name string) (CommandSpec, bool, error) {
	name = strings.ToLower(name)
	if cached, ok := source.cache.Get(name); ok {
		entry := cached.(cachedCommandSpec)
		return entry.spec, entry.found, entry.err
	}
	infos, err := source.loader.Command(ctx).Result()
	if err != nil {
		return CommandSpec{}, false, fmt.Errorf("load command info: %w", err)
	}
	var result cachedCommandSpec
	loaded := false
	for infoName, info := range infos {
		entry := convertCommandInfo(info)
		infoName = strings.ToLower(infoName)
		source.cache.SetDefault(infoName, entry)
		if infoName == name {
			result, loaded = entry, true
		}
	}
	if !loaded {
		source.cache.SetDefault(name, result)
	}
	return result.spec, result.found, result.err
}

func convertCommandInfo(info *redis.CommandInfo) cachedCommandSpec {
	if info == nil || info.FirstKeyPos <= 0 {
		return cachedCommandSpec{}
	}
	for _, flag := range info.Flags {
		if flag == "movablekeys" {
			return cachedCommandSpec{err: errMovableKeys}
		}
	}
	spec := CommandSpec{
		Name:  strings.ToLower(info.Name),
		Arity: int(info.Arity),
		Keys: KeySpec{
			First: int(info.FirstKeyPos),
			Last:  int(info.LastKeyPos),
			Step:  int(info.StepCount),
		},
	}
	for _, flag := range info.Flags {
		if flag == "blocking" {
			spec.Blocking = true
		}
	}
	return cachedCommandSpec{spec: spec, found: true}
}
