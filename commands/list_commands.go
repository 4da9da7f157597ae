package commands

import (
	"strings"
	"time"
)

type ListPosition string

const (
	ListPositionBefore ListPosition = "BEFORE"
	ListPositionAfter  ListPosition = "AFTER"
)

type ListDirection string

const (
	ListDirectionLeft  ListDirection = "LEFT"
	ListDirectionRight ListDirection = "RIGHT"
)

func (builder *Builder) LPush(key Key, elements ...interface{}) (*CommandObject[int64], error) {
	return builder.push("LPUSH", key, elements)
}

func (builder *Builder) LPushX(key Key, elements ...interface{}) (*CommandObject[int64], error) {
	return builder.push("LPUSHX", key, elements)
}

func (builder *Builder) RPush(key Key, elements ...interface{}) (*CommandObject[int64], error) {
	return builder.push("RPUSH", key, elements)
}

func (builder *Builder) RPushX(key Key, elements ...interface{}) (*CommandObject[int64], error) {
	return builder.push("RPUSHX", key, elements)
}

func (builder *Builder) push(command string, key Key, elements []interface{}) (*CommandObject[int64], error) {
	if len(elements) == 0 {
		return nil, newWrongNumberOfArgumentsError(strings.ToLower(command))
	}
	return NewCommandObject(builder.Arguments(command).Key(key).AddObjects(elements...), Int64Decoder)
}

func (builder *Builder) LPop(key Key) (*CommandObject[string], error) {
	return NewCommandObject(builder.Arguments("LPOP").Key(key), StringDecoder)
}

func (builder *Builder) RPop(key Key) (*CommandObject[string], error) {
	return NewCommandObject(builder.Arguments("RPOP").Key(key), StringDecoder)
}

func (builder *Builder) LLen(key Key) (*CommandObject[int64], error) {
	return NewCommandObject(builder.Arguments("LLEN").Key(key), Int64Decoder)
}

func (builder *Builder) LRange(key Key, start, stop int64) (*CommandObject[[]string], error) {
	return NewCommandObject(builder.Arguments("LRANGE").Key(key).Add(start).Add(stop), StringSliceDecoder)
}

func (builder *Builder) LIndex(key Key, index int64) (*CommandObject[string], error) {
	return NewCommandObject(builder.Arguments("LINDEX").Key(key).Add(index), StringDecoder)
}

func (builder *Builder) LSet(key Key, index int64, element interface{}) (*CommandObject[string], error) {
	return NewCommandObject(builder.Arguments("LSET").Key(key).Add(index).Add(element), StatusDecoder)
}

func (builder *Builder) LRem(key Key, count int64, element interface{}) (*CommandObject[int64], error) {
	return NewCommandObject(builder.Arguments("LREM").Key(key).Add(count).Add(element), Int64Decoder)
}

func (builder *Builder) LTrim(key Key, start, stop int64) (*CommandObject[string], error) {
	return NewCommandObject(builder.Arguments("LTRIM").Key(key).Add(start).Add(stop), StatusDecoder)
}

func (builder *Builder) LInsert(key Key, position ListPosition, pivot, element interface{}) (*CommandObject[int64], error) {
	arguments := builder.Arguments("LINSERT").Key(key).Add(string(position)).Add(pivot).Add(element)
	return NewCommandObject(arguments, Int64Decoder)
}

func (builder *Builder) RPopLPush(source, destination Key) (*CommandObject[string], error) {
	return NewCommandObject(builder.Arguments("RPOPLPUSH").Key(source).Key(destination), StringDecoder)
}

func (builder *Builder) LMove(source, destination Key, from, to ListDirection) (*CommandObject[string], error) {
	arguments := builder.Arguments("LMOVE").Key(source).Key(destination).Add(string(from)).Add(string(to))
	return NewCommandObject(arguments, StringDecoder)
}

// BLPop returns nil when timeout elapses. A zero timeout blocks forever.
func (builder *Builder) BLPop(timeout time.Duration, keys ...Key) (*CommandObject[*KeyedString], error) {
	return builder.blockingPop("BLPOP", timeout, keys)
}

func (builder *Builder) BRPop(timeout time.Duration, keys ...Key) (*CommandObject[*KeyedString], error) {
	return builder.blockingPop("BRPOP", timeout, keys)
}

func (builder *Builder) blockingPop(command string, timeout time.Duration, keys []Key) (*CommandObject[*KeyedString], error) {
	if len(keys) == 0 {
		return nil, newWrongNumberOfArgumentsError(strings.ToLower(command))
	}
	arguments := builder.Arguments(command).KeyList(keys).Add(timeout.Seconds()).Blocking()
	return NewCommandObject(arguments, KeyedStringDecoder)
}
