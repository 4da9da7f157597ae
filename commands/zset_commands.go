package commands

// ZAdd adds members with their scores.
func (builder *Builder) ZAdd(key Key, members ...Z) (*CommandObject[int64], error) {
	if len(members) == 0 {
		return nil, newWrongNumberOfArgumentsError("zadd")
	}
	arguments := builder.Arguments("ZADD").Key(key)
	for _, member := range members {
		arguments.Add(member.Score).Add(member.Member)
	}
	return NewCommandObject(arguments, Int64Decoder)
}

func (builder *Builder) ZIncrBy(key Key, increment float64, member string) (*CommandObject[float64], error) {
	return NewCommandObject(builder.Arguments("ZINCRBY").Key(key).Add(increment).Add(member), Float64Decoder)
}

func (builder *Builder) ZCard(key Key) (*CommandObject[int64], error) {
	return NewCommandObject(builder.Arguments("ZCARD").Key(key), Int64Decoder)
}

// ZCount takes score bounds in Redis syntax, e.g. "(1" or "-inf".
func (builder *Builder) ZCount(key Key, min, max string) (*CommandObject[int64], error) {
	return NewCommandObject(builder.Arguments("ZCOUNT").Key(key).Add(min).Add(max), Int64Decoder)
}

func (builder *Builder) ZScore(key Key, member string) (*CommandObject[float64], error) {
	return NewCommandObject(builder.Arguments("ZSCORE").Key(key).Add(member), Float64Decoder)
}

func (builder *Builder) ZMScore(key Key, members ...string) (*CommandObject[[]*float64], error) {
	arguments := builder.Arguments("ZMSCORE").Key(key)
	for _, member := range members {
		arguments.Add(member)
	}
	return NewCommandObject(arguments, NullableFloat64SliceDecoder)
}

func (builder *Builder) ZRank(key Key, member string) (*CommandObject[int64], error) {
	return NewCommandObject(builder.Arguments("ZRANK").Key(key).Add(member), Int64Decoder)
}

func (builder *Builder) ZRevRank(key Key, member string) (*CommandObject[int64], error) {
	return NewCommandObject(builder.Arguments("ZREVRANK").Key(key).Add(member), Int64Decoder)
}

func (builder *Builder) ZRem(key Key, members ...string) (*CommandObject[int64], error) {
	arguments := builder.Arguments("ZREM").Key(key)
	for _, member := range members {
		arguments.Add(member)
	}
	return NewCommandObject(arguments, Int64Decoder)
}

func (builder *Builder) ZRange(key Key, start, stop int64) (*CommandObject[[]string], error) {
	return NewCommandObject(builder.Arguments("ZRANGE").Key(key).Add(start).Add(stop), StringSliceDecoder)
}

func (builder *Builder) ZRangeWithScores(key Key, start, stop int64) (*CommandObject[[]Z], error) {
	arguments := builder.Arguments("ZRANGE").Key(key).Add(start).Add(stop).Add("WITHSCORES")
	return NewCommandObject(arguments, ZSliceDecoder)
}

func (builder *Builder) ZRevRange(key Key, start, stop int64) (*CommandObject[[]string], error) {
	return NewCommandObject(builder.Arguments("ZREVRANGE").Key(key).Add(start).Add(stop), StringSliceDecoder)
}

func (builder *Builder) ZRangeByScore(key Key, min, max string) (*CommandObject[[]string], error) {
	return NewCommandObject(builder.Arguments("ZRANGEBYSCORE").Key(key).Add(min).Add(max), StringSliceDecoder)
}

func (builder *Builder) ZRemRangeByRank(key Key, start, stop int64) (*CommandObject[int64], error) {
	return NewCommandObject(builder.Arguments("ZREMRANGEBYRANK").Key(key).Add(start).Add(stop), Int64Decoder)
}

func (builder *Builder) ZRemRangeByScore(key Key, min, max string) (*CommandObject[int64], error) {
	return NewCommandObject(builder.Arguments("ZREMRANGEBYSCORE").Key(key).Add(min).Add(max), Int64Decoder)
}

func (builder *Builder) ZPopMin(key Key, count int64) (*CommandObject[[]Z], error) {
	return NewCommandObject(builder.Arguments("ZPOPMIN").Key(key).Add(count), ZSliceDecoder)
}

func (builder *Builder) ZPopMax(key Key, count int64) (*CommandObject[[]Z], error) {
	return NewCommandObject(builder.Arguments("ZPOPMAX").Key(key).Add(count), ZSliceDecoder)
}
