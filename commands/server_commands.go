package commands

func (builder *Builder) Ping() (*CommandObject[string], error) {
	return NewCommandObject(builder.Arguments("PING"), StatusDecoder)
}

func (builder *Builder) Echo(message interface{}) (*CommandObject[string], error) {
	return NewCommandObject(builder.Arguments("ECHO").Add(message), StringDecoder)
}

// FlushDB clears the whole database, not only the keys under a prefix.
func (builder *Builder) FlushDB() (*CommandObject[string], error) {
	return NewCommandObject(builder.Arguments("FLUSHDB"), StatusDecoder)
}

func (builder *Builder) DBSize() (*CommandObject[int64], error) {
	return NewCommandObject(builder.Arguments("DBSIZE"), Int64Decoder)
}
