package commands

// HSet takes alternating fields and values; fields are plain arguments.
func (builder *Builder) HSet(key Key, fieldsValues ...interface{}) (*CommandObject[int64], error) {
	if len(fieldsValues) == 0 || len(fieldsValues)%2 != 0 {
		return nil, newWrongNumberOfArgumentsError("hset")
	}
	return NewCommandObject(builder.Arguments("HSET").Key(key).AddObjects(fieldsValues...), Int64Decoder)
}

func (builder *Builder) HSetNX(key Key, field string, value interface{}) (*CommandObject[bool], error) {
	return NewCommandObject(builder.Arguments("HSETNX").Key(key).Add(field).Add(value), BoolDecoder)
}

func (builder *Builder) HGet(key Key, field string) (*CommandObject[string], error) {
	return NewCommandObject(builder.Arguments("HGET").Key(key).Add(field), StringDecoder)
}

func (builder *Builder) HMGet(key Key, fields ...string) (*CommandObject[[]string], error) {
	arguments := builder.Arguments("HMGET").Key(key)
	for _, field := range fields {
		arguments.Add(field)
	}
	return NewCommandObject(arguments, StringSliceDecoder)
}

func (builder *Builder) HGetAll(key Key) (*CommandObject[map[string]string], error) {
	return NewCommandObject(builder.Arguments("HGETALL").Key(key), StringMapDecoder)
}

func (builder *Builder) HDel(key Key, fields ...string) (*CommandObject[int64], error) {
	arguments := builder.Arguments("HDEL").Key(key)
	for _, field := range fields {
		arguments.Add(field)
	}
	return NewCommandObject(arguments, Int64Decoder)
}

func (builder *Builder) HExists(key Key, field string) (*CommandObject[bool], error) {
	return NewCommandObject(builder.Arguments("HEXISTS").Key(key).Add(field), BoolDecoder)
}

func (builder *Builder) HIncrBy(key Key, field string, increment int64) (*CommandObject[int64], error) {
	return NewCommandObject(builder.Arguments("HINCRBY").Key(key).Add(field).Add(increment), Int64Decoder)
}

func (builder *Builder) HIncrByFloat(key Key, field string, increment float64) (*CommandObject[float64], error) {
	return NewCommandObject(builder.Arguments("HINCRBYFLOAT").Key(key).Add(field).Add(increment), Float64Decoder)
}

func (builder *Builder) HKeys(key Key) (*CommandObject[[]string], error) {
	return NewCommandObject(builder.Arguments("HKEYS").Key(key), StringSliceDecoder)
}

func (builder *Builder) HVals(key Key) (*CommandObject[[]string], error) {
	return NewCommandObject(builder.Arguments("HVALS").Key(key), StringSliceDecoder)
}

func (builder *Builder) HLen(key Key) (*CommandObject[int64], error) {
	return NewCommandObject(builder.Arguments("HLEN").Key(key), Int64Decoder)
}

func (builder *Builder) HStrLen(key Key, field string) (*CommandObject[int64], error) {
	return NewCommandObject(builder.Arguments("HSTRLEN").Key(key).Add(field), Int64Decoder)
}
