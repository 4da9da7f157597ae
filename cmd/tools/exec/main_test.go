package main

import (
	"errors"
	"testing"

	"bytepower_keyspace/commands"

	"github.com/stretchr/testify/assert"
)

func TestNewReplyJSON(t *testing.T) {
	cases := []struct {
		data     commands.RESPData
		expected string
	}{
		{commands.NewSimpleString("OK"), `{"type":"simple_string","value":"OK"}`},
		{commands.NewInteger(3), `{"type":"integer","value":3}`},
		{commands.NewNil(), `{"type":"nil"}`},
		{commands.NewErrorReply(errors.New("ERR boom")), `{"type":"error","value":"ERR boom"}`},
		{
			commands.NewArray(commands.NewBulkString("a"), commands.NewNil()),
			`{"type":"array","value":[{"type":"bulk_string","value":"a"},{"type":"nil"}]}`,
		},
	}
	for _, c := range cases {
		output, err := json.Marshal(newReply(c.data))
		assert.Nil(t, err)
		assert.JSONEq(t, c.expected, string(output))
	}
}

func TestToArgs(t *testing.T) {
	assert.Equal(t, [][]byte{[]byte("get"), []byte("k")}, toArgs([]string{"get", "k"}))
}
