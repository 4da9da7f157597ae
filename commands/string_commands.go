package commands

import "time"

type KeyExistMode string

const (
	KeyExistModeNone KeyExistMode = ""
	KeyExistModeNX   KeyExistMode = "NX"
	KeyExistModeXX   KeyExistMode = "XX"
)

// SetOptions are the optional SET arguments. Expiration is sent as PX when it
// is not a whole number of seconds.
type SetOptions struct {
	Expiration time.Duration
	KeepTTL    bool
	ExistMode  KeyExistMode
	Get        bool
}

func (options SetOptions) addTo(arguments *Arguments) *Arguments {
	if options.Expiration > 0 {
		if options.Expiration%time.Second == 0 {
			arguments.Add("EX").Add(int64(options.Expiration / time.Second))
		} else {
			arguments.Add("PX").Add(int64(options.Expiration / time.Millisecond))
		}
	} else if options.KeepTTL {
		arguments.Add("KEEPTTL")
	}
	if options.ExistMode != KeyExistModeNone {
		arguments.Add(string(options.ExistMode))
	}
	if options.Get {
		arguments.Add("GET")
	}
	return arguments
}

func (builder *Builder) Get(key Key) (*CommandObject[string], error) {
	return NewCommandObject(builder.Arguments("GET").Key(key), StringDecoder)
}

func (builder *Builder) GetBytes(key Key) (*CommandObject[[]byte], error) {
	return NewCommandObject(builder.Arguments("GET").Key(key), BytesDecoder)
}

// Set reports whether the value was written; with an exist mode a nil reply means it was not.
func (builder *Builder) Set(key Key, value interface{}, options SetOptions) (*CommandObject[bool], error) {
	arguments := builder.Arguments("SET").Key(key).Add(value)
	return NewCommandObject(options.addTo(arguments), BoolDecoder)
}

// SetGet is SET ... GET and returns the old value.
func (builder *Builder) SetGet(key Key, value interface{}, options SetOptions) (*CommandObject[string], error) {
	options.Get = true
	arguments := builder.Arguments("SET").Key(key).Add(value)
	return NewCommandObject(options.addTo(arguments), StringDecoder)
}

func (builder *Builder) SetNX(key Key, value interface{}) (*CommandObject[bool], error) {
	return NewCommandObject(builder.Arguments("SETNX").Key(key).Add(value), BoolDecoder)
}

func (builder *Builder) SetEX(key Key, expiration time.Duration, value interface{}) (*CommandObject[string], error) {
	arguments := builder.Arguments("SETEX").Key(key).Add(int64(expiration / time.Second)).Add(value)
	return NewCommandObject(arguments, StatusDecoder)
}

func (builder *Builder) PSetEX(key Key, expiration time.Duration, value interface{}) (*CommandObject[string], error) {
	arguments := builder.Arguments("PSETEX").Key(key).Add(int64(expiration / time.Millisecond)).Add(value)
	return NewCommandObject(arguments, StatusDecoder)
}

func (builder *Builder) GetSet(key Key, value interface{}) (*CommandObject[string], error) {
	return NewCommandObject(builder.Arguments("GETSET").Key(key).Add(value), StringDecoder)
}

func (builder *Builder) GetDel(key Key) (*CommandObject[string], error) {
	return NewCommandObject(builder.Arguments("GETDEL").Key(key), StringDecoder)
}

func (builder *Builder) Append(key Key, value interface{}) (*CommandObject[int64], error) {
	return NewCommandObject(builder.Arguments("APPEND").Key(key).Add(value), Int64Decoder)
}

func (builder *Builder) Incr(key Key) (*CommandObject[int64], error) {
	return NewCommandObject(builder.Arguments("INCR").Key(key), Int64Decoder)
}

func (builder *Builder) IncrBy(key Key, increment int64) (*CommandObject[int64], error) {
	return NewCommandObject(builder.Arguments("INCRBY").Key(key).Add(increment), Int64Decoder)
}

func (builder *Builder) IncrByFloat(key Key, increment float64) (*CommandObject[float64], error) {
	return NewCommandObject(builder.Arguments("INCRBYFLOAT").Key(key).Add(increment), Float64Decoder)
}

func (builder *Builder) Decr(key Key) (*CommandObject[int64], error) {
	return NewCommandObject(builder.Arguments("DECR").Key(key), Int64Decoder)
}

func (builder *Builder) DecrBy(key Key, decrement int64) (*CommandObject[int64], error) {
	return NewCommandObject(builder.Arguments("DECRBY").Key(key).Add(decrement), Int64Decoder)
}

func (builder *Builder) StrLen(key Key) (*CommandObject[int64], error) {
	return NewCommandObject(builder.Arguments("STRLEN").Key(key), Int64Decoder)
}

func (builder *Builder) GetRange(key Key, start, end int64) (*CommandObject[string], error) {
	return NewCommandObject(builder.Arguments("GETRANGE").Key(key).Add(start).Add(end), StringDecoder)
}

func (builder *Builder) SetRange(key Key, offset int64, value interface{}) (*CommandObject[int64], error) {
	return NewCommandObject(builder.Arguments("SETRANGE").Key(key).Add(offset).Add(value), Int64Decoder)
}

// MGet returns "" for missing keys.
func (builder *Builder) MGet(keys ...Key) (*CommandObject[[]string], error) {
	return NewCommandObject(builder.Arguments("MGET").KeyList(keys), StringSliceDecoder)
}

// MSet takes alternating keys and values. Keys may be any of the key shapes.
func (builder *Builder) MSet(keysValues ...interface{}) (*CommandObject[string], error) {
	arguments, err := builder.keyValueArguments("MSET", keysValues)
	if err != nil {
		return nil, err
	}
	return NewCommandObject(arguments, StatusDecoder)
}

func (builder *Builder) MSetNX(keysValues ...interface{}) (*CommandObject[bool], error) {
	arguments, err := builder.keyValueArguments("MSETNX", keysValues)
	if err != nil {
		return nil, err
	}
	return NewCommandObject(arguments, BoolDecoder)
}

func (builder *Builder) keyValueArguments(command string, keysValues []interface{}) (*Arguments, error) {
	if len(keysValues)%2 != 0 {
		return nil, errOddKeysValues
	}
	arguments := builder.Arguments(command)
	for i := 0; i < len(keysValues); i += 2 {
		arguments.Key(keysValues[i]).Add(keysValues[i+1])
	}
	return arguments, nil
}
