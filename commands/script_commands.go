package commands

// Eval runs script with keys tagged for the key transform. numkeys stays a
// plain argument and always equals len(keys).
func (builder *Builder) Eval(script string, keys []Key, args ...interface{}) (*CommandObject[RESPData], error) {
	return NewCommandObject(builder.scriptArguments("EVAL", script, keys, args), RawDecoder)
}

func (builder *Builder) EvalSha(sha1 string, keys []Key, args ...interface{}) (*CommandObject[RESPData], error) {
	return NewCommandObject(builder.scriptArguments("EVALSHA", sha1, keys, args), RawDecoder)
}

func (builder *Builder) scriptArguments(command, script string, keys []Key, args []interface{}) *Arguments {
	return builder.Arguments(command).Add(script).Add(len(keys)).KeyList(keys).AddObjects(args...)
}
