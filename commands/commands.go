package commands

import (
	"bytes"
	"context"
	"strconv"
	"strings"
)

// ReplyKind tells how a reply read through a generic go-redis Cmd has to be
// written back to a RESP client.
type ReplyKind int

const (
	// ReplyDefault replies are written as they were read.
	ReplyDefault ReplyKind = iota
	// ReplyStatus replies are simple strings such as +OK, which a generic Cmd
	// can not tell apart from bulk strings.
	ReplyStatus
	// ReplyStatusWithoutArgs replies are status replies only when the command
	// has no arguments. PING answers +PONG but echoes its message as bulk.
	ReplyStatusWithoutArgs
)

// KeySpec locates the key arguments of a command line. Positions count the
// command token as 0, like the first/last/step triple of Redis COMMAND.
type KeySpec struct {
	First int
	// Last is counted from the end of the line when negative.
	Last int
	Step int
	// NumKeysIndex, when positive, holds the number of keys that directly follow it.
	NumKeysIndex int
	// MatchPattern marks the argument after a MATCH token as a key.
	MatchPattern bool
}

// CommandSpec describes one command the parser accepts.
type CommandSpec struct {
	Name string
	// Arity counts the command token. A negative arity means at least -Arity tokens.
	Arity int
	Keys  KeySpec
	Reply ReplyKind
	// BulkFlag names an option, such as GET for SET, that turns a status
	// reply into a bulk string reply.
	BulkFlag string
	Blocking bool
}

func (spec CommandSpec) checkArity(argc int) bool {
	if spec.Arity >= 0 {
		return argc == spec.Arity
	}
	return argc >= -spec.Arity
}

var (
	singleKey = KeySpec{First: 1, Last: 1, Step: 1}
	twoKeys   = KeySpec{First: 1, Last: 2, Step: 1}
	allKeys   = KeySpec{First: 1, Last: -1, Step: 1}
	noKeys    = KeySpec{}
)

var supportedCommands = newCommandTable(
	// keys commands
	CommandSpec{Name: "del", Arity: -2, Keys: allKeys},
	CommandSpec{Name: "unlink", Arity: -2, Keys: allKeys},
	CommandSpec{Name: "exists", Arity: -2, Keys: allKeys},
	CommandSpec{Name: "touch", Arity: -2, Keys: allKeys},
	CommandSpec{Name: "expire", Arity: -3, Keys: singleKey},
	CommandSpec{Name: "expireat", Arity: -3, Keys: singleKey},
	CommandSpec{Name: "pexpire", Arity: -3, Keys: singleKey},
	CommandSpec{Name: "pexpireat", Arity: -3, Keys: singleKey},
	CommandSpec{Name: "persist", Arity: 2, Keys: singleKey},
	CommandSpec{Name: "ttl", Arity: 2, Keys: singleKey},
	CommandSpec{Name: "pttl", Arity: 2, Keys: singleKey},
	CommandSpec{Name: "type", Arity: 2, Keys: singleKey, Reply: ReplyStatus},
	CommandSpec{Name: "rename", Arity: 3, Keys: twoKeys, Reply: ReplyStatus},
	CommandSpec{Name: "renamenx", Arity: 3, Keys: twoKeys},
	CommandSpec{Name: "keys", Arity: 2, Keys: singleKey},
	CommandSpec{Name: "scan", Arity: -2, Keys: KeySpec{MatchPattern: true}},

	// string commands
	CommandSpec{Name: "get", Arity: 2, Keys: singleKey},
	CommandSpec{Name: "set", Arity: -3, Keys: singleKey, Reply: ReplyStatus, BulkFlag: "get"},
	CommandSpec{Name: "setnx", Arity: 3, Keys: singleKey},
	CommandSpec{Name: "setex", Arity: 4, Keys: singleKey, Reply: ReplyStatus},
	CommandSpec{Name: "psetex", Arity: 4, Keys: singleKey, Reply: ReplyStatus},
	CommandSpec{Name: "getset", Arity: 3, Keys: singleKey},
	CommandSpec{Name: "getdel", Arity: 2, Keys: singleKey},
	CommandSpec{Name: "append", Arity: 3, Keys: singleKey},
	CommandSpec{Name: "incr", Arity: 2, Keys: singleKey},
	CommandSpec{Name: "incrby", Arity: 3, Keys: singleKey},
	CommandSpec{Name: "incrbyfloat", Arity: 3, Keys: singleKey},
	CommandSpec{Name: "decr", Arity: 2, Keys: singleKey},
	CommandSpec{Name: "decrby", Arity: 3, Keys: singleKey},
	CommandSpec{Name: "strlen", Arity: 2, Keys: singleKey},
	CommandSpec{Name: "getrange", Arity: 4, Keys: singleKey},
	CommandSpec{Name: "setrange", Arity: 4, Keys: singleKey},
	CommandSpec{Name: "mget", Arity: -2, Keys: allKeys},
	CommandSpec{Name: "mset", Arity: -3, Keys: KeySpec{First: 1, Last: -1, Step: 2}, Reply: ReplyStatus},
	CommandSpec{Name: "msetnx", Arity: -3, Keys: KeySpec{First: 1, Last: -1, Step: 2}},

	// hash commands
	CommandSpec{Name: "hset", Arity: -4, Keys: singleKey},
	CommandSpec{Name: "hmset", Arity: -4, Keys: singleKey, Reply: ReplyStatus},
	CommandSpec{Name: "hsetnx", Arity: 4, Keys: singleKey},
	CommandSpec{Name: "hget", Arity: 3, Keys: singleKey},
	CommandSpec{Name: "hmget", Arity: -3, Keys: singleKey},
	CommandSpec{Name: "hgetall", Arity: 2, Keys: singleKey},
	CommandSpec{Name: "hdel", Arity: -3, Keys: singleKey},
	CommandSpec{Name: "hexists", Arity: 3, Keys: singleKey},
	CommandSpec{Name: "hincrby", Arity: 4, Keys: singleKey},
	CommandSpec{Name: "hincrbyfloat", Arity: 4, Keys: singleKey},
	CommandSpec{Name: "hkeys", Arity: 2, Keys: singleKey},
	CommandSpec{Name: "hvals", Arity: 2, Keys: singleKey},
	CommandSpec{Name: "hlen", Arity: 2, Keys: singleKey},
	CommandSpec{Name: "hstrlen", Arity: 3, Keys: singleKey},

	// list commands
	CommandSpec{Name: "lpush", Arity: -3, Keys: singleKey},
	CommandSpec{Name: "lpushx", Arity: -3, Keys: singleKey},
	CommandSpec{Name: "rpush", Arity: -3, Keys: singleKey},
	CommandSpec{Name: "rpushx", Arity: -3, Keys: singleKey},
	CommandSpec{Name: "lpop", Arity: -2, Keys: singleKey},
	CommandSpec{Name: "rpop", Arity: -2, Keys: singleKey},
	CommandSpec{Name: "llen", Arity: 2, Keys: singleKey},
	CommandSpec{Name: "lrange", Arity: 4, Keys: singleKey},
	CommandSpec{Name: "lindex", Arity: 3, Keys: singleKey},
	CommandSpec{Name: "lset", Arity: 4, Keys: singleKey, Reply: ReplyStatus},
	CommandSpec{Name: "lrem", Arity: 4, Keys: singleKey},
	CommandSpec{Name: "ltrim", Arity: 4, Keys: singleKey, Reply: ReplyStatus},
	CommandSpec{Name: "linsert", Arity: 5, Keys: singleKey},
	CommandSpec{Name: "lpos", Arity: -3, Keys: singleKey},
	CommandSpec{Name: "rpoplpush", Arity: 3, Keys: twoKeys},
	CommandSpec{Name: "lmove", Arity: 5, Keys: twoKeys},
	CommandSpec{Name: "blpop", Arity: -3, Keys: KeySpec{First: 1, Last: -2, Step: 1}, Blocking: true},
	CommandSpec{Name: "brpop", Arity: -3, Keys: KeySpec{First: 1, Last: -2, Step: 1}, Blocking: true},

	// set commands
	CommandSpec{Name: "sadd", Arity: -3, Keys: singleKey},
	CommandSpec{Name: "srem", Arity: -3, Keys: singleKey},
	CommandSpec{Name: "scard", Arity: 2, Keys: singleKey},
	CommandSpec{Name: "sismember", Arity: 3, Keys: singleKey},
	CommandSpec{Name: "smismember", Arity: -3, Keys: singleKey},
	CommandSpec{Name: "smembers", Arity: 2, Keys: singleKey},
	CommandSpec{Name: "spop", Arity: -2, Keys: singleKey},
	CommandSpec{Name: "srandmember", Arity: -2, Keys: singleKey},
	CommandSpec{Name: "smove", Arity: 4, Keys: twoKeys},
	CommandSpec{Name: "sdiff", Arity: -2, Keys: allKeys},
	CommandSpec{Name: "sdiffstore", Arity: -3, Keys: allKeys},
	CommandSpec{Name: "sinter", Arity: -2, Keys: allKeys},
	CommandSpec{Name: "sinterstore", Arity: -3, Keys: allKeys},
	CommandSpec{Name: "sunion", Arity: -2, Keys: allKeys},
	CommandSpec{Name: "sunionstore", Arity: -3, Keys: allKeys},

	// zset commands
	CommandSpec{Name: "zadd", Arity: -4, Keys: singleKey},
	CommandSpec{Name: "zincrby", Arity: 4, Keys: singleKey},
	CommandSpec{Name: "zcard", Arity: 2, Keys: singleKey},
	CommandSpec{Name: "zcount", Arity: 4, Keys: singleKey},
	CommandSpec{Name: "zlexcount", Arity: 4, Keys: singleKey},
	CommandSpec{Name: "zscore", Arity: 3, Keys: singleKey},
	CommandSpec{Name: "zmscore", Arity: -3, Keys: singleKey},
	CommandSpec{Name: "zrank", Arity: 3, Keys: singleKey},
	CommandSpec{Name: "zrevrank", Arity: 3, Keys: singleKey},
	CommandSpec{Name: "zrem", Arity: -3, Keys: singleKey},
	CommandSpec{Name: "zrange", Arity: -4, Keys: singleKey},
	CommandSpec{Name: "zrevrange", Arity: -4, Keys: singleKey},
	CommandSpec{Name: "zrangebyscore", Arity: -4, Keys: singleKey},
	CommandSpec{Name: "zrevrangebyscore", Arity: -4, Keys: singleKey},
	CommandSpec{Name: "zrangebylex", Arity: -4, Keys: singleKey},
	CommandSpec{Name: "zrevrangebylex", Arity: -4, Keys: singleKey},
	CommandSpec{Name: "zremrangebyrank", Arity: 4, Keys: singleKey},
	CommandSpec{Name: "zremrangebyscore", Arity: 4, Keys: singleKey},
	CommandSpec{Name: "zremrangebylex", Arity: 4, Keys: singleKey},
	CommandSpec{Name: "zpopmin", Arity: -2, Keys: singleKey},
	CommandSpec{Name: "zpopmax", Arity: -2, Keys: singleKey},
	CommandSpec{Name: "zdiff", Arity: -3, Keys: KeySpec{NumKeysIndex: 1}},
	CommandSpec{Name: "zdiffstore", Arity: -4, Keys: KeySpec{First: 1, Last: 1, Step: 1, NumKeysIndex: 2}},

	// scripting commands
	CommandSpec{Name: "eval", Arity: -3, Keys: KeySpec{NumKeysIndex: 2}},
	CommandSpec{Name: "evalsha", Arity: -3, Keys: KeySpec{NumKeysIndex: 2}},

	// server commands
	CommandSpec{Name: "ping", Arity: -1, Keys: noKeys, Reply: ReplyStatusWithoutArgs},
	CommandSpec{Name: "echo", Arity: 2, Keys: noKeys},
)

func newCommandTable(specs ...CommandSpec) map[string]CommandSpec {
	table := make(map[string]CommandSpec, len(specs))
	for _, spec := range specs {
		table[spec.Name] = spec
	}
	return table
}

// LookupCommand returns the built-in CommandSpec of a command, matched case-insensitively.
func LookupCommand(name string) (CommandSpec, bool) {
	spec, ok := supportedCommands[strings.ToLower(name)]
	return spec, ok
}

// Command is a parsed command line ready to be executed.
type Command struct {
	Spec      CommandSpec
	Arguments *Arguments
}

func (command *Command) String() string {
	return command.Arguments.String()
}

// WireReply restores the simple string type of a status reply read through a
// generic Cmd. Other replies are returned unchanged.
func (command *Command) WireReply(reply RESPData) RESPData {
	if reply.DataType != BulkStringRespType {
		return reply
	}
	switch command.Spec.Reply {
	case ReplyStatus:
	case ReplyStatusWithoutArgs:
		if command.Arguments.Len() > 1 {
			return reply
		}
	default:
		return reply
	}
	// flags follow the first key and its value
	if args := command.Arguments.Args(); command.Spec.BulkFlag != "" && len(args) > command.Spec.Keys.First+1 {
		for _, arg := range args[command.Spec.Keys.First+1:] {
			if strings.EqualFold(string(arg.Raw()), command.Spec.BulkFlag) {
				return reply
			}
		}
	}
	if s, _ := reply.Value.(string); strings.ContainsAny(s, "\r\n") {
		return reply
	}
	reply.DataType = SimpleStringRespType
	return reply
}

// Parser turns raw command lines into Arguments built through a Builder, so
// every key is transformed and nothing else is.
type Parser struct {
	builder    *Builder
	infoSource CommandInfoSource
}

// NewParser creates a parser. infoSource may be nil, in which case only
// built-in commands are accepted.
func NewParser(builder *Builder, infoSource CommandInfoSource) *Parser {
	return &Parser{builder: builder, infoSource: infoSource}
}

// ParseCommand parses args with the built-in command table only.
func ParseCommand(builder *Builder, args [][]byte) (*Command, error) {
	return NewParser(builder, nil).Parse(context.Background(), args)
}

func (parser *Parser) Parse(ctx context.Context, args [][]byte) (*Command, error) {
	if len(args) == 0 {
		return nil, errEmptyCommand
	}
	name := strings.ToLower(string(args[0]))
	spec, err := parser.lookup(ctx, name, args)
	if err != nil {
		return nil, err
	}
	if !spec.checkArity(len(args)) {
		return nil, newWrongNumberOfArgumentsError(name)
	}
	keyPositions, err := spec.Keys.positions(name, args)
	if err != nil {
		return nil, err
	}
	arguments := parser.builder.Arguments(string(args[0]))
	for index := 1; index < len(args); index++ {
		if _, ok := keyPositions[index]; ok {
			arguments.Key(args[index])
		} else {
			arguments.Add(args[index])
		}
	}
	if spec.Keys.MatchPattern && len(keyPositions) == 0 {
		// a pattern of "*" becomes "<prefix>*" so the scan stays in the namespace
		arguments.Add("MATCH").Key("*")
	}
	if spec.Blocking {
		arguments.Blocking()
	}
	if err := arguments.Err(); err != nil {
		return nil, err
	}
	return &Command{Spec: spec, Arguments: arguments}, nil
}

func (parser *Parser) lookup(ctx context.Context, name string, args [][]byte) (CommandSpec, error) {
	if spec, ok := supportedCommands[name]; ok {
		return spec, nil
	}
	if parser.infoSource != nil {
		spec, ok, err := parser.infoSource.LookupCommand(ctx, name)
		if err != nil {
			return CommandSpec{}, err
		}
		if ok {
			return spec, nil
		}
	}
	return CommandSpec{}, newUnknownCommand(name, argsToStrings(args[1:]))
}

func (keySpec KeySpec) positions(name string, args [][]byte) (map[int]struct{}, error) {
	positions := make(map[int]struct{})
	argc := len(args)
	if keySpec.First > 0 {
		last := keySpec.Last
		if last < 0 {
			last = argc + last
		}
		step := keySpec.Step
		if step <= 0 {
			step = 1
		}
		if step > 1 && keySpec.Last < 0 && (argc-keySpec.First)%step != 0 {
			return nil, newWrongNumberOfArgumentsError(name)
		}
		for index := keySpec.First; index <= last && index < argc; index += step {
			positions[index] = struct{}{}
		}
	}
	if keySpec.NumKeysIndex > 0 {
		numKeys, err := strconv.Atoi(string(args[keySpec.NumKeysIndex]))
		if err != nil {
			return nil, errInvalidInteger
		}
		if numKeys < 0 {
			return nil, errScriptNegativeNumberOfKeys
		}
		if numKeys > argc-keySpec.NumKeysIndex-1 {
			return nil, errScriptNumberOfKeysGreaterThanArgs
		}
		for index := keySpec.NumKeysIndex + 1; index <= keySpec.NumKeysIndex+numKeys; index++ {
			positions[index] = struct{}{}
		}
	}
	if keySpec.MatchPattern {
		// options come in pairs after the cursor
		for index := 2; index+1 < argc; index += 2 {
			if bytes.EqualFold(args[index], []byte("match")) {
				positions[index+1] = struct{}{}
			}
		}
	}
	return positions, nil
}

func argsToStrings(args [][]byte) []string {
	result := make([]string, 0, len(args))
	for _, arg := range args {
		result = append(result, string(arg))
	}
	return result
}
