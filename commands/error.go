package commands

import (
	"errors"
	"fmt"
	"strings"
)

func newWrongNumberOfArgumentsError(command string) error {
	return fmt.Errorf("ERR wrong number of arguments for '%s' command", command)
}

func newUnknownCommand(command string, args []string) error {
	argSlice := []string{}
	for _, arg := range args {
		argSlice = append(argSlice, fmt.Sprintf("`%s`", arg))
	}
	return fmt.Errorf(
		"ERR unknown command `%s`, with args beginning with: %s",
		command, strings.Join(argSlice, ","),
	)
}

func newInvalidKeyError(value interface{}) error {
	return fmt.Errorf("%w: \"%v\" is not a valid key", ErrInvalidKey, value)
}

func newUnexpectedReplyError(expected string, reply RESPData) error {
	return fmt.Errorf("%w: expected %s, got %s", ErrUnexpectedReply, expected, reply.DataType)
}

var (
	// ErrInvalidKey is returned when a key argument is not a string, a []byte or a Rawable.
	ErrInvalidKey = errors.New("invalid key argument")
	// ErrInvalidArgument is returned when a plain argument cannot be encoded.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidPrefix is returned for prefixes that can not isolate a namespace.
	ErrInvalidPrefix = errors.New("invalid key prefix")
	// ErrUnexpectedReply is returned by decoders when the reply shape does not match.
	ErrUnexpectedReply = errors.New("unexpected reply")

	ErrCrossSlot = errors.New("CROSSSLOT Keys in request don't hash to the same slot")
	ErrKeyless   = errors.New("command has no keys")

	errSyntaxError                       = errors.New("ERR syntax error")
	errEmptyCommand                      = errors.New("ERR empty command")
	errInvalidInteger                    = errors.New("ERR value is not an integer or out of range")
	errScriptNumberOfKeysGreaterThanArgs = errors.New("ERR Number of keys can't be greater than number of args")
	errScriptNegativeNumberOfKeys        = errors.New("ERR Number of keys can't be negative")
	errNullArgument                      = fmt.Errorf("%w: null is not a valid argument", ErrInvalidArgument)
	errOddKeysValues                     = fmt.Errorf("%w: keysValues must contain an even number of elements", ErrInvalidArgument)
	errKeysPatternNotCompliant           = fmt.Errorf("%w: cluster mode only supports KEYS command with pattern containing hash-tag", ErrInvalidArgument)
	errScanPatternNotCompliant           = fmt.Errorf("%w: cluster mode only supports SCAN command with MATCH pattern containing hash-tag", ErrInvalidArgument)
)
