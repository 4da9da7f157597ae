package commands

func (builder *Builder) SAdd(key Key, members ...interface{}) (*CommandObject[int64], error) {
	if len(members) == 0 {
		return nil, newWrongNumberOfArgumentsError("sadd")
	}
	return NewCommandObject(builder.Arguments("SADD").Key(key).AddObjects(members...), Int64Decoder)
}

func (builder *Builder) SRem(key Key, members ...interface{}) (*CommandObject[int64], error) {
	if len(members) == 0 {
		return nil, newWrongNumberOfArgumentsError("srem")
	}
	return NewCommandObject(builder.Arguments("SREM").Key(key).AddObjects(members...), Int64Decoder)
}

func (builder *Builder) SCard(key Key) (*CommandObject[int64], error) {
	return NewCommandObject(builder.Arguments("SCARD").Key(key), Int64Decoder)
}

func (builder *Builder) SIsMember(key Key, member interface{}) (*CommandObject[bool], error) {
	return NewCommandObject(builder.Arguments("SISMEMBER").Key(key).Add(member), BoolDecoder)
}

func (builder *Builder) SMIsMember(key Key, members ...interface{}) (*CommandObject[[]bool], error) {
	return NewCommandObject(builder.Arguments("SMISMEMBER").Key(key).AddObjects(members...), BoolSliceDecoder)
}

func (builder *Builder) SMembers(key Key) (*CommandObject[map[string]struct{}], error) {
	return NewCommandObject(builder.Arguments("SMEMBERS").Key(key), StringSetDecoder)
}

func (builder *Builder) SPop(key Key) (*CommandObject[string], error) {
	return NewCommandObject(builder.Arguments("SPOP").Key(key), StringDecoder)
}

func (builder *Builder) SPopN(key Key, count int64) (*CommandObject[[]string], error) {
	return NewCommandObject(builder.Arguments("SPOP").Key(key).Add(count), StringSliceDecoder)
}

func (builder *Builder) SRandMember(key Key) (*CommandObject[string], error) {
	return NewCommandObject(builder.Arguments("SRANDMEMBER").Key(key), StringDecoder)
}

func (builder *Builder) SRandMemberN(key Key, count int64) (*CommandObject[[]string], error) {
	return NewCommandObject(builder.Arguments("SRANDMEMBER").Key(key).Add(count), StringSliceDecoder)
}

func (builder *Builder) SMove(source, destination Key, member interface{}) (*CommandObject[bool], error) {
	return NewCommandObject(builder.Arguments("SMOVE").Key(source).Key(destination).Add(member), BoolDecoder)
}

func (builder *Builder) SDiff(keys ...Key) (*CommandObject[[]string], error) {
	return NewCommandObject(builder.Arguments("SDIFF").KeyList(keys), StringSliceDecoder)
}

func (builder *Builder) SDiffStore(destination Key, keys ...Key) (*CommandObject[int64], error) {
	return NewCommandObject(builder.Arguments("SDIFFSTORE").Key(destination).KeyList(keys), Int64Decoder)
}

func (builder *Builder) SInter(keys ...Key) (*CommandObject[[]string], error) {
	return NewCommandObject(builder.Arguments("SINTER").KeyList(keys), StringSliceDecoder)
}

func (builder *Builder) SInterStore(destination Key, keys ...Key) (*CommandObject[int64], error) {
	return NewCommandObject(builder.Arguments("SINTERSTORE").Key(destination).KeyList(keys), Int64Decoder)
}

func (builder *Builder) SUnion(keys ...Key) (*CommandObject[[]string], error) {
	return NewCommandObject(builder.Arguments("SUNION").KeyList(keys), StringSliceDecoder)
}

func (builder *Builder) SUnionStore(destination Key, keys ...Key) (*CommandObject[int64], error) {
	return NewCommandObject(builder.Arguments("SUNIONSTORE").Key(destination).KeyList(keys), Int64Decoder)
}
