package commands

import (
	"math"
	"strconv"
)

// Rawable is a value with a canonical byte form: the literal bytes Redis sees,
// without any length prefix or terminator.
type Rawable interface {
	Raw() []byte
}

type rawBytes []byte

func (raw rawBytes) Raw() []byte {
	return raw
}

func (raw rawBytes) String() string {
	return string(raw)
}

// RawableFrom wraps bytes without copying them. RawableFrom(x).Raw() returns x.
func RawableFrom(raw []byte) Rawable {
	return rawBytes(raw)
}

func RawableFromString(s string) Rawable {
	return rawBytes(s)
}

func RawableFromInt(i int) Rawable {
	return rawBytes(strconv.Itoa(i))
}

func RawableFromInt64(i int64) Rawable {
	return rawBytes(strconv.FormatInt(i, 10))
}

func RawableFromUint64(i uint64) Rawable {
	return rawBytes(strconv.FormatUint(i, 10))
}

// RawableFromFloat64 encodes f in its shortest decimal form; infinities become
// "+inf" and "-inf" as Redis expects for score bounds.
func RawableFromFloat64(f float64) Rawable {
	switch {
	case math.IsInf(f, 1):
		return rawBytes("+inf")
	case math.IsInf(f, -1):
		return rawBytes("-inf")
	}
	return rawBytes(strconv.FormatFloat(f, 'f', -1, 64))
}

func RawableFromBool(b bool) Rawable {
	if b {
		return rawBytes("1")
	}
	return rawBytes("0")
}
