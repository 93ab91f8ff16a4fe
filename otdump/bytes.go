package otdump

import "fmt"

// view is a bounds-checked cursor over raw table bytes. The first
// out-of-bounds read latches an error; subsequent reads return zero.
type view struct {
	b   []byte
	off int
	err error
}

func (v *view) need(n int) bool {
	if v.err != nil {
		return false
	}
	if v.off+n > len(v.b) {
		v.err = fmt.Errorf("table too short: need %d bytes at offset %d, have %d",
			n, v.off, len(v.b))
		return false
	}
	return true
}

func (v *view) u8() uint8 {
	if !v.need(1) {
		return 0
	}
	x := v.b[v.off]
	v.off++
	return x
}

func (v *view) u16() uint16 {
	if !v.need(2) {
		return 0
	}
	x := uint16(v.b[v.off])<<8 | uint16(v.b[v.off+1])
	v.off += 2
	return x
}

func (v *view) i16() int16 {
	return int16(v.u16())
}

func (v *view) u32() uint32 {
	if !v.need(4) {
		return 0
	}
	x := uint32(v.b[v.off])<<24 | uint32(v.b[v.off+1])<<16 |
		uint32(v.b[v.off+2])<<8 | uint32(v.b[v.off+3])
	v.off += 4
	return x
}

func (v *view) i64() int64 {
	hi := v.u32()
	lo := v.u32()
	return int64(uint64(hi)<<32 | uint64(lo))
}

// fixed reads a 16.16 fixed-point number.
func (v *view) fixed() float32 {
	return float32(int32(v.u32())) / 65536
}

// f2dot14 reads a 2.14 fixed-point number.
func (v *view) f2dot14() float32 {
	return float32(v.i16()) / 16384
}

func (v *view) tag() string {
	if !v.need(4) {
		return ""
	}
	s := string(v.b[v.off : v.off+4])
	v.off += 4
	return s
}

func (v *view) bytes(n int) []byte {
	if !v.need(n) {
		return nil
	}
	b := v.b[v.off : v.off+n]
	v.off += n
	return b
}

func (v *view) skip(n int) {
	if v.need(n) {
		v.off += n
	}
}

func (v *view) seek(off int) {
	if v.err != nil {
		return
	}
	if off < 0 || off > len(v.b) {
		v.err = fmt.Errorf("seek out of bounds: %d of %d", off, len(v.b))
		return
	}
	v.off = off
}
