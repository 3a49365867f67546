// Package conv formats small integers without fmt or strconv, so driver error
// strings stay cheap on TinyGo targets.
package conv

const hexd = "0123456789ABCDEF"

// AppendHex8 appends b as two uppercase hex digits without 0x.
func AppendHex8(dst []byte, b byte) []byte {
	return append(dst, hexd[b>>4], hexd[b&0xF])
}

// AppendInt appends the base-10 form of n.
func AppendInt(dst []byte, n int) []byte {
	if n < 0 {
		dst = append(dst, '-')
		// Work in uint so the most negative int survives negation.
		return appendUint(dst, uint(-(n+1))+1)
	}
	return appendUint(dst, uint(n))
}

func appendUint(dst []byte, u uint) []byte {
	var tmp [20]byte
	i := len(tmp)
	for {
		i--
		tmp[i] = byte('0' + u%10)
		u /= 10
		if u == 0 {
			break
		}
	}
	return append(dst, tmp[i:]...)
}
