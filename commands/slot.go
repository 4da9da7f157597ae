package commands

import "bytes"

const SlotCount = 16384

var crc16Table [256]uint16

func init() {
	for i := 0; i < 256; i++ {
		crc := uint16(i) << 8
		for bit := 0; bit < 8; bit++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
		crc16Table[i] = crc
	}
}

func crc16(data []byte) uint16 {
	var crc uint16
	for _, b := range data {
		crc = crc<<8 ^ crc16Table[byte(crc>>8)^b]
	}
	return crc
}

// Slot returns the cluster slot of a raw key, hashing only its hash tag when it has one.
func Slot(key []byte) int {
	if tag := extractHashTag(key); tag != nil {
		key = tag
	}
	return int(crc16(key) % SlotCount)
}

func KeySlot(key Key) int {
	return Slot(key.Raw())
}

// ExtractHashTagFromKey returns the content of the first {...} section of key,
// or "" when there is none or it is empty.
func ExtractHashTagFromKey(key string) string {
	return string(extractHashTag([]byte(key)))
}

func extractHashTag(key []byte) []byte {
	leftBraceIndex := bytes.IndexByte(key, '{')
	if leftBraceIndex == -1 {
		return nil
	}
	rightBraceIndex := bytes.IndexByte(key[leftBraceIndex+1:], '}')
	if rightBraceIndex > 0 {
		return key[leftBraceIndex+1 : leftBraceIndex+1+rightBraceIndex]
	}
	return nil
}

// IsClusterCompliantMatchPattern reports whether every key matched by pattern
// lives in one slot: the pattern needs a non-empty hash tag and no glob
// character up to the closing brace.
func IsClusterCompliantMatchPattern(pattern []byte) bool {
	leftBraceIndex := bytes.IndexByte(pattern, '{')
	if leftBraceIndex == -1 {
		return false
	}
	rightBraceIndex := bytes.IndexByte(pattern[leftBraceIndex+1:], '}')
	if rightBraceIndex <= 0 {
		return false
	}
	end := leftBraceIndex + 1 + rightBraceIndex
	return !bytes.ContainsAny(pattern[:end], `*?[\`)
}

// AreKeysInSameSlot reports whether all keys hash to one slot. No keys is true.
func AreKeysInSameSlot(keys ...Key) bool {
	if len(keys) == 0 {
		return true
	}
	slot := KeySlot(keys[0])
	for _, key := range keys[1:] {
		if KeySlot(key) != slot {
			return false
		}
	}
	return true
}
