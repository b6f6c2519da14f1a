// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

// The functions in this file compute results and processor flags without
// touching CPU state, so the instruction implementations stay small and the
// arithmetic can be tested in isolation.

// adc adds m and the carry flag to a. In decimal mode the result is BCD
// corrected; the NMOS part takes N and Z from the corrected result while
// the 65c02 takes them from the uncorrected binary sum.
func adc(arch Architecture, a, m byte, ps Status) (byte, Status) {
	carry := uint16(ps.Bit(Carry))

	if !ps.Has(Decimal) {
		sum := uint16(a) + uint16(m) + carry
		r := byte(sum)
		ps.Set(Carry, sum > 0xff)
		ps.Set(Overflow, (a^r)&(m^r)&0x80 != 0)
		return r, ps.withNZ(r)
	}

	bin := a + m + byte(carry)

	lo := uint16(a&0x0f) + uint16(m&0x0f) + carry
	if lo >= 0x0a {
		lo = ((lo + 0x06) & 0x0f) + 0x10
	}
	sum := uint16(a&0xf0) + uint16(m&0xf0) + lo

	// Overflow comes from the sum before the high nibble is corrected.
	seq := byte(sum)
	ps.Set(Overflow, (a^seq)&(m^seq)&0x80 != 0)

	if sum >= 0xa0 {
		sum += 0x60
	}
	r := byte(sum)
	ps.Set(Carry, sum >= 0x100)

	if arch == CMOS {
		return r, ps.withNZ(bin)
	}
	return r, ps.withNZ(r)
}

// sbc subtracts m and the borrow (inverted carry) from a. Carry and overflow
// are always those of the binary subtraction. The decimal correction differs
// between the NMOS part (nibble by nibble) and the 65c02 (whole byte).
func sbc(arch Architecture, a, m byte, ps Status) (byte, Status) {
	borrow := 1 - int(ps.Bit(Carry))
	diff := int(a) - int(m) - borrow
	bin := byte(diff)

	ps.Set(Carry, diff >= 0)
	ps.Set(Overflow, (a^m)&(a^bin)&0x80 != 0)

	if !ps.Has(Decimal) {
		return bin, ps.withNZ(bin)
	}

	lo := int(a&0x0f) - int(m&0x0f) - borrow

	var r int
	if arch == NMOS {
		if lo < 0 {
			lo = ((lo - 0x06) & 0x0f) - 0x10
		}
		r = int(a&0xf0) - int(m&0xf0) + lo
		if r < 0 {
			r -= 0x60
		}
	} else {
		r = diff
		if r < 0 {
			r -= 0x60
		}
		if lo < 0 {
			r -= 0x06
		}
	}
	res := byte(r)

	if arch == CMOS {
		return res, ps.withNZ(bin)
	}
	return res, ps.withNZ(res)
}

// compare sets C if reg >= m and takes N and Z from reg - m.
func compare(reg, m byte, ps Status) Status {
	ps.Set(Carry, reg >= m)
	return ps.withNZ(reg - m)
}

func asl(v byte, ps Status) (byte, Status) {
	ps.Set(Carry, v&0x80 != 0)
	v <<= 1
	return v, ps.withNZ(v)
}

func lsr(v byte, ps Status) (byte, Status) {
	ps.Set(Carry, v&0x01 != 0)
	v >>= 1
	return v, ps.withNZ(v)
}

func rol(v byte, ps Status) (byte, Status) {
	c := ps.Bit(Carry)
	ps.Set(Carry, v&0x80 != 0)
	v = v<<1 | c
	return v, ps.withNZ(v)
}

func ror(v byte, ps Status) (byte, Status) {
	c := ps.Bit(Carry)
	ps.Set(Carry, v&0x01 != 0)
	v = v>>1 | c<<7
	return v, ps.withNZ(v)
}

// bit tests a against m. Z reflects a&m. Unless immediate is set, N and V
// are copied from bits 7 and 6 of m.
func bit(a, m byte, ps Status, immediate bool) Status {
	ps.Set(Zero, a&m == 0)
	if !immediate {
		ps.Set(Negative, m&0x80 != 0)
		ps.Set(Overflow, m&0x40 != 0)
	}
	return ps
}

// arr performs the undocumented AND then ROR. Its flags, and in decimal
// mode its result, follow the adder rather than the shifter.
func arr(a, m byte, ps Status) (byte, Status) {
	t := a & m
	c := ps.Bit(Carry)
	r := t>>1 | c<<7

	if !ps.Has(Decimal) {
		ps = ps.withNZ(r)
		ps.Set(Carry, r&0x40 != 0)
		ps.Set(Overflow, (r>>6^r>>5)&0x01 != 0)
		return r, ps
	}

	ps.Set(Negative, c != 0)
	ps.Set(Zero, r == 0)
	ps.Set(Overflow, (t^r)&0x40 != 0)
	if (t&0x0f)+(t&0x01) > 0x05 {
		r = (r & 0xf0) | ((r + 0x06) & 0x0f)
	}
	hi := uint16(t&0xf0) + uint16(t&0x10)
	ps.Set(Carry, hi > 0x50)
	if hi > 0x50 {
		r += 0x60
	}
	return r, ps
}

// sbx subtracts m from a&x without borrow, setting C like a compare.
func sbx(a, x, m byte, ps Status) (byte, Status) {
	t := a & x
	ps.Set(Carry, t >= m)
	r := t - m
	return r, ps.withNZ(r)
}
