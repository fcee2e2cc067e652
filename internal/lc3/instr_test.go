package lc3

import "testing"

func TestInstruction_Encode(t *testing.T) {
	t.Parallel()

	t.Run("ADD register mode", func(t *testing.T) {
		t.Parallel()

		code := NewInstruction(ADD, uint16(R1)<<9|uint16(R2)<<6)
		code.Operand(uint16(R3))

		want := Word(0b0001_001_010_000_011)
		if got := code.Encode(); got != want {
			t.Errorf("want: %s, got: %s", want, got)
		}

		d := Disassemble(code.Encode())
		if d.DR != R1 || d.SR1 != R2 || d.SR2 != R3 || d.Imm {
			t.Errorf("decoded wrong: %s", d)
		}
	})

	t.Run("ADD immediate mode", func(t *testing.T) {
		t.Parallel()

		code := NewInstruction(ADD, uint16(R0)<<9|uint16(R0)<<6)
		code.Operand(1 << 5)
		code.Operand(uint16(0b11111)) // -1, imm5

		want := Word(0b0001_000_000_1_11111)
		if got := code.Encode(); got != want {
			t.Errorf("want: %s, got: %s", want, got)
		}

		d := Disassemble(code.Encode())

		if !d.Imm || int16(d.Literal) != -1 {
			t.Errorf("decoded wrong: %s", d)
		}
	})

	t.Run("AND DR and SR2 fields do not leak into SR1", func(t *testing.T) {
		t.Parallel()

		code := NewInstruction(AND, uint16(R7)<<9|uint16(R0)<<6)
		code.Operand(uint16(R1))

		if got := Instruction(code).SR1(); got != R0 {
			t.Errorf("want: %s, got: %s", R0, got)
		}
	})
}

func TestWord_Sext(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   uint16
		n    uint8
		want int16
	}{
		{0b11111, 5, -1},
		{0b01111, 5, 15},
		{0b10000, 5, -16},
		{0, 9, 0},
		{0b1_1111_1111, 9, -1},
	}

	for _, tc := range cases {
		w := Word(tc.in)
		w.Sext(tc.n)

		if int16(w) != tc.want {
			t.Errorf("Sext(%#b, %d): want: %d, got: %d", tc.in, tc.n, tc.want, int16(w))
		}
	}
}

func TestObjectCode_RoundTrip(t *testing.T) {
	t.Parallel()

	obj := ObjectCode{
		Orig: 0x3000,
		Code: []Word{0xF025, 0x1263},
	}

	bs, err := obj.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}

	want := []byte{0x30, 0x00, 0xF0, 0x25, 0x12, 0x63}

	if len(bs) != len(want) {
		t.Fatalf("want %d bytes, got %d: %x", len(want), len(bs), bs)
	}

	for i := range want {
		if bs[i] != want[i] {
			t.Errorf("byte %d: want %#02x, got %#02x", i, want[i], bs[i])
		}
	}

	var got ObjectCode
	if err := got.UnmarshalBinary(bs); err != nil {
		t.Fatal(err)
	}

	if got.Orig != obj.Orig || len(got.Code) != len(obj.Code) {
		t.Fatalf("round trip mismatch: %+v != %+v", got, obj)
	}

	for i := range obj.Code {
		if got.Code[i] != obj.Code[i] {
			t.Errorf("word %d: want %s, got %s", i, obj.Code[i], got.Code[i])
		}
	}
}
