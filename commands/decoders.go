package commands

import (
	"strconv"

	"github.com/go-redis/redis/v8"
)

// Decoder maps a raw reply to a typed result. Decoders are pure functions of
// the reply.
type Decoder[T any] func(reply RESPData) (T, error)

// Z is a sorted set member with its score.
type Z struct {
	Member string
	Score  float64
}

// KeyedString is a key and value pair such as the reply of BLPOP.
type KeyedString struct {
	Key   string
	Value string
}

type ScanResult struct {
	Cursor string
	Items  []string
}

var RawDecoder Decoder[RESPData] = func(reply RESPData) (RESPData, error) {
	return reply, nil
}

var StatusDecoder Decoder[string] = func(reply RESPData) (string, error) {
	return replyString(reply)
}

// StringDecoder returns redis.Nil for a nil reply.
var StringDecoder Decoder[string] = func(reply RESPData) (string, error) {
	return replyString(reply)
}

var BytesDecoder Decoder[[]byte] = func(reply RESPData) ([]byte, error) {
	s, err := replyString(reply)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

var Int64Decoder Decoder[int64] = func(reply RESPData) (int64, error) {
	return replyInt64(reply)
}

// BoolDecoder treats integer 1 and the status OK as true. A nil reply, as
// returned by SET NX when the key exists, is false.
var BoolDecoder Decoder[bool] = func(reply RESPData) (bool, error) {
	switch reply.DataType {
	case NilRespType:
		return false, nil
	case SimpleStringRespType, BulkStringRespType:
		s, _ := reply.Value.(string)
		return s == "OK", nil
	}
	i, err := replyInt64(reply)
	if err != nil {
		return false, err
	}
	return i == 1, nil
}

var Float64Decoder Decoder[float64] = func(reply RESPData) (float64, error) {
	return replyFloat64(reply)
}

// StringSliceDecoder maps nil elements to "".
var StringSliceDecoder Decoder[[]string] = func(reply RESPData) ([]string, error) {
	items, err := replyArray(reply)
	if err != nil || items == nil {
		return nil, err
	}
	result := make([]string, 0, len(items))
	for _, item := range items {
		if item.IsNil() {
			result = append(result, "")
			continue
		}
		s, err := replyString(item)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, nil
}

// BytesSliceDecoder keeps nil elements as nil.
var BytesSliceDecoder Decoder[[][]byte] = func(reply RESPData) ([][]byte, error) {
	items, err := replyArray(reply)
	if err != nil || items == nil {
		return nil, err
	}
	result := make([][]byte, 0, len(items))
	for _, item := range items {
		if item.IsNil() {
			result = append(result, nil)
			continue
		}
		s, err := replyString(item)
		if err != nil {
			return nil, err
		}
		result = append(result, []byte(s))
	}
	return result, nil
}

var Int64SliceDecoder Decoder[[]int64] = func(reply RESPData) ([]int64, error) {
	items, err := replyArray(reply)
	if err != nil || items == nil {
		return nil, err
	}
	result := make([]int64, 0, len(items))
	for _, item := range items {
		i, err := replyInt64(item)
		if err != nil {
			return nil, err
		}
		result = append(result, i)
	}
	return result, nil
}

var BoolSliceDecoder Decoder[[]bool] = func(reply RESPData) ([]bool, error) {
	items, err := replyArray(reply)
	if err != nil || items == nil {
		return nil, err
	}
	result := make([]bool, 0, len(items))
	for _, item := range items {
		b, err := BoolDecoder(item)
		if err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	return result, nil
}

// NullableFloat64SliceDecoder decodes replies such as ZMSCORE where missing
// members are nil.
var NullableFloat64SliceDecoder Decoder[[]*float64] = func(reply RESPData) ([]*float64, error) {
	items, err := replyArray(reply)
	if err != nil || items == nil {
		return nil, err
	}
	result := make([]*float64, 0, len(items))
	for _, item := range items {
		if item.IsNil() {
			result = append(result, nil)
			continue
		}
		f, err := replyFloat64(item)
		if err != nil {
			return nil, err
		}
		result = append(result, &f)
	}
	return result, nil
}

// StringMapDecoder reads a flat field/value array such as the HGETALL reply.
var StringMapDecoder Decoder[map[string]string] = func(reply RESPData) (map[string]string, error) {
	items, err := StringSliceDecoder(reply)
	if err != nil {
		return nil, err
	}
	if len(items)%2 != 0 {
		return nil, newUnexpectedReplyError("field/value pairs", reply)
	}
	result := make(map[string]string, len(items)/2)
	for i := 0; i < len(items); i += 2 {
		result[items[i]] = items[i+1]
	}
	return result, nil
}

var StringSetDecoder Decoder[map[string]struct{}] = func(reply RESPData) (map[string]struct{}, error) {
	items, err := StringSliceDecoder(reply)
	if err != nil {
		return nil, err
	}
	result := make(map[string]struct{}, len(items))
	for _, item := range items {
		result[item] = struct{}{}
	}
	return result, nil
}

// KeyedStringDecoder returns nil when a blocking pop timed out.
var KeyedStringDecoder Decoder[*KeyedString] = func(reply RESPData) (*KeyedString, error) {
	if reply.IsNil() {
		return nil, nil
	}
	items, err := StringSliceDecoder(reply)
	if err != nil {
		return nil, err
	}
	if len(items) != 2 {
		return nil, newUnexpectedReplyError("key/value pair", reply)
	}
	return &KeyedString{Key: items[0], Value: items[1]}, nil
}

var ScanDecoder Decoder[ScanResult] = func(reply RESPData) (ScanResult, error) {
	items, err := replyArray(reply)
	if err != nil {
		return ScanResult{}, err
	}
	if len(items) != 2 {
		return ScanResult{}, newUnexpectedReplyError("cursor and items", reply)
	}
	cursor, err := replyString(items[0])
	if err != nil {
		return ScanResult{}, err
	}
	keys, err := StringSliceDecoder(items[1])
	if err != nil {
		return ScanResult{}, err
	}
	return ScanResult{Cursor: cursor, Items: keys}, nil
}

// ZSliceDecoder reads a flat member/score array.
var ZSliceDecoder Decoder[[]Z] = func(reply RESPData) ([]Z, error) {
	items, err := replyArray(reply)
	if err != nil || items == nil {
		return nil, err
	}
	if len(items)%2 != 0 {
		return nil, newUnexpectedReplyError("member/score pairs", reply)
	}
	result := make([]Z, 0, len(items)/2)
	for i := 0; i < len(items); i += 2 {
		member, err := replyString(items[i])
		if err != nil {
			return nil, err
		}
		score, err := replyFloat64(items[i+1])
		if err != nil {
			return nil, err
		}
		result = append(result, Z{Member: member, Score: score})
	}
	return result, nil
}

func replyString(reply RESPData) (string, error) {
	switch reply.DataType {
	case ErrorRespType:
		return "", reply.Err()
	case NilRespType:
		return "", redis.Nil
	case SimpleStringRespType, BulkStringRespType:
		s, ok := reply.Value.(string)
		if !ok {
			return "", newUnexpectedReplyError("string", reply)
		}
		return s, nil
	case IntegerRespType:
		i, ok := reply.Value.(int64)
		if !ok {
			return "", newUnexpectedReplyError("string", reply)
		}
		return strconv.FormatInt(i, 10), nil
	default:
		return "", newUnexpectedReplyError("string", reply)
	}
}

func replyInt64(reply RESPData) (int64, error) {
	switch reply.DataType {
	case ErrorRespType:
		return 0, reply.Err()
	case NilRespType:
		return 0, redis.Nil
	case IntegerRespType:
		i, ok := reply.Value.(int64)
		if !ok {
			return 0, newUnexpectedReplyError("integer", reply)
		}
		return i, nil
	case SimpleStringRespType, BulkStringRespType:
		s, _ := reply.Value.(string)
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, newUnexpectedReplyError("integer", reply)
		}
		return i, nil
	default:
		return 0, newUnexpectedReplyError("integer", reply)
	}
}

func replyFloat64(reply RESPData) (float64, error) {
	switch reply.DataType {
	case ErrorRespType:
		return 0, reply.Err()
	case NilRespType:
		return 0, redis.Nil
	case IntegerRespType:
		i, _ := reply.Value.(int64)
		return float64(i), nil
	case SimpleStringRespType, BulkStringRespType:
		s, _ := reply.Value.(string)
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, newUnexpectedReplyError("float", reply)
		}
		return f, nil
	default:
		return 0, newUnexpectedReplyError("float", reply)
	}
}

// replyArray returns nil items and no error for a nil array.
func replyArray(reply RESPData) ([]RESPData, error) {
	switch reply.DataType {
	case ErrorRespType:
		return nil, reply.Err()
	case NilRespType:
		return nil, nil
	case ArrayRespType:
		items, ok := reply.Value.([]RESPData)
		if !ok {
			return nil, newUnexpectedReplyError("array", reply)
		}
		return items, nil
	default:
		return nil, newUnexpectedReplyError("array", reply)
	}
}
