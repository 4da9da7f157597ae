package commands

import "time"

func (builder *Builder) Del(keys ...Key) (*CommandObject[int64], error) {
	return NewCommandObject(builder.Arguments("DEL").KeyList(keys), Int64Decoder)
}

func (builder *Builder) Unlink(keys ...Key) (*CommandObject[int64], error) {
	return NewCommandObject(builder.Arguments("UNLINK").KeyList(keys), Int64Decoder)
}

func (builder *Builder) Exists(keys ...Key) (*CommandObject[int64], error) {
	return NewCommandObject(builder.Arguments("EXISTS").KeyList(keys), Int64Decoder)
}

func (builder *Builder) Touch(keys ...Key) (*CommandObject[int64], error) {
	return NewCommandObject(builder.Arguments("TOUCH").KeyList(keys), Int64Decoder)
}

func (builder *Builder) Expire(key Key, expiration time.Duration) (*CommandObject[bool], error) {
	return NewCommandObject(builder.Arguments("EXPIRE").Key(key).Add(int64(expiration/time.Second)), BoolDecoder)
}

func (builder *Builder) PExpire(key Key, expiration time.Duration) (*CommandObject[bool], error) {
	return NewCommandObject(builder.Arguments("PEXPIRE").Key(key).Add(int64(expiration/time.Millisecond)), BoolDecoder)
}

func (builder *Builder) ExpireAt(key Key, tm time.Time) (*CommandObject[bool], error) {
	return NewCommandObject(builder.Arguments("EXPIREAT").Key(key).Add(tm.Unix()), BoolDecoder)
}

func (builder *Builder) PExpireAt(key Key, tm time.Time) (*CommandObject[bool], error) {
	return NewCommandObject(builder.Arguments("PEXPIREAT").Key(key).Add(tm.UnixNano()/int64(time.Millisecond)), BoolDecoder)
}

func (builder *Builder) Persist(key Key) (*CommandObject[bool], error) {
	return NewCommandObject(builder.Arguments("PERSIST").Key(key), BoolDecoder)
}

// TTL and PTTL return -1 for keys without expiry and -2 for missing keys.
func (builder *Builder) TTL(key Key) (*CommandObject[int64], error) {
	return NewCommandObject(builder.Arguments("TTL").Key(key), Int64Decoder)
}

func (builder *Builder) PTTL(key Key) (*CommandObject[int64], error) {
	return NewCommandObject(builder.Arguments("PTTL").Key(key), Int64Decoder)
}

func (builder *Builder) Type(key Key) (*CommandObject[string], error) {
	return NewCommandObject(builder.Arguments("TYPE").Key(key), StatusDecoder)
}

func (builder *Builder) Rename(key, newKey Key) (*CommandObject[string], error) {
	return NewCommandObject(builder.Arguments("RENAME").Key(key).Key(newKey), StatusDecoder)
}

func (builder *Builder) RenameNX(key, newKey Key) (*CommandObject[bool], error) {
	return NewCommandObject(builder.Arguments("RENAMENX").Key(key).Key(newKey), BoolDecoder)
}

// Keys tags pattern as a key, so a prefixing builder confines it to the namespace.
func (builder *Builder) Keys(pattern Key) (*CommandObject[[]string], error) {
	return NewCommandObject(builder.Arguments("KEYS").Key(pattern), StringSliceDecoder)
}

// ScanOptions are the optional SCAN arguments. A non-nil Match is tagged as
// a key so it goes through the key transform like a KEYS pattern.
type ScanOptions struct {
	Match Key
	Count int64
	Type  string
}

func (builder *Builder) Scan(cursor string, options ScanOptions) (*CommandObject[ScanResult], error) {
	return NewCommandObject(builder.scanArguments(cursor, options), ScanDecoder)
}

func (builder *Builder) scanArguments(cursor string, options ScanOptions) *Arguments {
	arguments := builder.Arguments("SCAN").Add(cursor)
	match := options.Match
	if match == nil {
		// an unfiltered SCAN would walk every namespace
		match = TextKey("*")
	}
	arguments.Add("MATCH").Key(match)
	if options.Count > 0 {
		arguments.Add("COUNT").Add(options.Count)
	}
	if options.Type != "" {
		arguments.Add("TYPE").Add(options.Type)
	}
	return arguments
}
