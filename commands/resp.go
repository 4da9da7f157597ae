package commands

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-redis/redis/v8"
)

type RESPType string

const (
	SimpleStringRespType RESPType = "simple_string"
	BulkStringRespType   RESPType = "bulk_string"
	ErrorRespType        RESPType = "error"
	IntegerRespType      RESPType = "integer"
	ArrayRespType        RESPType = "array"
	NilRespType          RESPType = "nil"
)

// RESPData is a decoded reply. Value holds a string for simple and bulk
// strings, an error, an int64, a []RESPData for arrays, or nil.
type RESPData struct {
	DataType RESPType
	Value    interface{}
}

func (data RESPData) String() string {
	var result string
	switch data.DataType {
	case SimpleStringRespType:
		result = fmt.Sprintf("s:%s", data.Value)
	case BulkStringRespType:
		result = fmt.Sprintf("bs:%s", data.Value)
	case ErrorRespType:
		result = fmt.Sprintf("err:%v", data.Value)
	case IntegerRespType:
		result = fmt.Sprintf("i:%d", data.Value)
	case NilRespType:
		result = "nil:nil"
	case ArrayRespType:
		array, _ := data.Value.([]RESPData)
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("a:%d{ ", len(array)))
		for _, item := range array {
			sb.WriteString(item.String())
			sb.WriteString(" ")
		}
		sb.WriteString(" }")
		result = sb.String()
	}
	return result
}

// Err returns the server error carried by an error reply.
func (data RESPData) Err() error {
	if data.DataType != ErrorRespType {
		return nil
	}
	if err, ok := data.Value.(error); ok {
		return err
	}
	return fmt.Errorf("%v", data.Value)
}

func (data RESPData) IsNil() bool {
	return data.DataType == NilRespType
}

func NewSimpleString(s string) RESPData {
	return RESPData{DataType: SimpleStringRespType, Value: s}
}

func NewBulkString(s string) RESPData {
	return RESPData{DataType: BulkStringRespType, Value: s}
}

func NewInteger(i int64) RESPData {
	return RESPData{DataType: IntegerRespType, Value: i}
}

func NewArray(items ...RESPData) RESPData {
	if items == nil {
		items = []RESPData{}
	}
	return RESPData{DataType: ArrayRespType, Value: items}
}

func NewNil() RESPData {
	return RESPData{DataType: NilRespType}
}

func NewErrorReply(err error) RESPData {
	return RESPData{DataType: ErrorRespType, Value: err}
}

// ConvertErrorToRESPData maps redis.Nil to a nil reply and any other error to an error reply.
func ConvertErrorToRESPData(err error) RESPData {
	if err == redis.Nil {
		return NewNil()
	}
	return NewErrorReply(err)
}

// IsServerError reports whether err is an error reply sent by Redis rather
// than a transport or client-side failure.
func IsServerError(err error) bool {
	if err == redis.Nil {
		return true
	}
	var redisErr redis.Error
	return errors.As(err, &redisErr)
}

// ConvertCmdResultToRESPData turns a processed go-redis command into RESPData.
func ConvertCmdResultToRESPData(cmd redis.Cmder) RESPData {
	var result RESPData
	switch command := cmd.(type) {
	case *redis.StatusCmd:
		r, err := command.Result()
		if err != nil {
			result = ConvertErrorToRESPData(err)
		} else {
			result = NewSimpleString(r)
		}
	case *redis.IntCmd:
		r, err := command.Result()
		if err != nil {
			result = ConvertErrorToRESPData(err)
		} else {
			result = NewInteger(r)
		}
	case *redis.StringCmd:
		r, err := command.Result()
		if err != nil {
			result = ConvertErrorToRESPData(err)
		} else {
			result = NewBulkString(r)
		}
	case *redis.Cmd:
		r, err := command.Result()
		if err != nil {
			result = ConvertErrorToRESPData(err)
		} else {
			result = convertValueToRESPData(r)
		}
	default:
		result = ConvertErrorToRESPData(errors.New("ERR invalid response data format"))
	}
	return result
}

func convertValueToRESPData(value interface{}) RESPData {
	switch v := value.(type) {
	case nil:
		return NewNil()
	case string:
		return NewBulkString(v)
	case []byte:
		return NewBulkString(string(v))
	case int, int8, int16, int32, int64:
		return NewInteger(reflect.ValueOf(v).Int())
	case uint, uint8, uint16, uint32, uint64:
		return NewInteger(int64(reflect.ValueOf(v).Uint()))
	case error:
		return NewErrorReply(v)
	case []interface{}:
		return convertSliceToRESPData(v)
	default:
		return ConvertErrorToRESPData(errors.New("ERR invalid response"))
	}
}

func convertSliceToRESPData(slice []interface{}) RESPData {
	value := make([]RESPData, 0, len(slice))
	for _, item := range slice {
		value = append(value, convertValueToRESPData(item))
	}
	return RESPData{DataType: ArrayRespType, Value: value}
}
