package acs

import "fmt"

// CaseEntry is one sub-case of a CASEGOTOSORTED instruction: a value
// to compare the top-of-stack against and the pc to jump to on match.
type CaseEntry struct {
	PCOffset int64
	Value    int32
	Target   int32
}

// Instruction is one decoded bytecode instruction: an ordered token
// (pc_offset, opcode_id, arg_list), per §3. CaseEntries is only
// populated for CASEGOTOSORTED.
type Instruction struct {
	PCOffset    int64
	Opcode      int
	Mnemonic    string
	Args        []int64
	CaseEntries []CaseEntry
	Invalid     bool
}

// pcodeSegment is the abstract cursor of §3: (base_offset,
// cursor_byte_position, end_byte_position, invalid_opcode_flag). It
// lives across one call to the disassembler.
type pcodeSegment struct {
	buf        *Buffer
	base       int64
	cursor     int64
	end        int64
	smallCode  bool
	invalidOp  bool
}

// Disassemble decodes the bytecode slice [base, end) of buf into a
// sequence of instructions, per §4.6. Bounds are checked before every
// field read. An unknown opcode sets invalid_opcode and ends
// disassembly of the segment without attempting to resynchronize.
func Disassemble(buf *Buffer, base, end int64, smallCode bool) ([]Instruction, error) {
	seg := &pcodeSegment{buf: buf, base: base, cursor: base, end: end, smallCode: smallCode}

	var instrs []Instruction
	for seg.cursor < seg.end {
		instr, err := seg.decodeOne()
		if err != nil {
			return instrs, err
		}
		if instr == nil {
			break
		}
		instrs = append(instrs, *instr)
		if instr.Invalid {
			break
		}
	}
	return instrs, nil
}

func (s *pcodeSegment) requireBytes(k int64) error {
	if s.buf.BytesAvailableFrom(s.cursor) < k || s.cursor+k > s.end {
		return &IllFormedError{Offset: s.cursor, Reason: "short read in pcode segment"}
	}
	return nil
}

func (s *pcodeSegment) readU8() (uint8, error) {
	if err := s.requireBytes(1); err != nil {
		return 0, err
	}
	v, err := s.buf.ReadU8(s.cursor)
	if err != nil {
		return 0, err
	}
	s.cursor++
	return v, nil
}

func (s *pcodeSegment) readI32() (int32, error) {
	if err := s.requireBytes(4); err != nil {
		return 0, err
	}
	v, err := s.buf.ReadI32LE(s.cursor)
	if err != nil {
		return 0, err
	}
	s.cursor += 4
	return v, nil
}

func (s *pcodeSegment) readI16() (int16, error) {
	if err := s.requireBytes(2); err != nil {
		return 0, err
	}
	v, err := s.buf.ReadI16LE(s.cursor)
	if err != nil {
		return 0, err
	}
	s.cursor += 2
	return v, nil
}

// readScaled reads one integer argument, 1 byte if small_code else
// 4 bytes, per the "one integer arg (scaled by small_code)" class.
func (s *pcodeSegment) readScaled() (int64, error) {
	if s.smallCode {
		v, err := s.readU8()
		return int64(v), err
	}
	v, err := s.readI32()
	return int64(v), err
}

// decodeOne decodes the opcode at the cursor and its arguments,
// returning the instruction. It never returns (nil, nil): a cursor
// at end fails the opcode read with a short-read error.
func (s *pcodeSegment) decodeOne() (*Instruction, error) {
	pcOffset := s.cursor - s.base

	opcode, err := s.readOpcode()
	if err != nil {
		return nil, err
	}

	instr := &Instruction{PCOffset: pcOffset, Opcode: opcode, Mnemonic: MnemonicFor(opcode)}

	if opcode < 0 || opcode >= NumOpcodes {
		s.invalidOp = true
		instr.Invalid = true
		return instr, nil
	}

	switch classify(opcode) {
	case argClassZero:
		// no immediates

	case argClassOneScaled:
		v, err := s.readScaled()
		if err != nil {
			return nil, err
		}
		instr.Args = []int64{v}

	case argClassLSpecNDirect:
		n := lspecNDirectArgCount(opcode)
		special, err := s.readScaled()
		if err != nil {
			return nil, err
		}
		args := make([]int64, 0, n+1)
		args = append(args, special)
		for i := 0; i < n; i++ {
			v, err := s.readI32()
			if err != nil {
				return nil, err
			}
			args = append(args, int64(v))
		}
		instr.Args = args

	case argClassLSpecNDirectB:
		n := lspecNDirectBArgCount(opcode)
		args := make([]int64, 0, n+1)
		for i := 0; i < n+1; i++ {
			v, err := s.readU8()
			if err != nil {
				return nil, err
			}
			args = append(args, int64(v))
		}
		instr.Args = args

	case argClassPushByte:
		v, err := s.readU8()
		if err != nil {
			return nil, err
		}
		instr.Args = []int64{int64(v)}

	case argClassPushNBytes:
		n := pushNBytesArgCount(opcode)
		args := make([]int64, 0, n)
		for i := 0; i < n; i++ {
			v, err := s.readU8()
			if err != nil {
				return nil, err
			}
			args = append(args, int64(v))
		}
		instr.Args = args

	case argClassPushBytes:
		count, err := s.readU8()
		if err != nil {
			return nil, err
		}
		args := make([]int64, 0, count)
		for i := 0; i < int(count); i++ {
			v, err := s.readU8()
			if err != nil {
				return nil, err
			}
			args = append(args, int64(v))
		}
		instr.Args = args

	case argClassCaseGotoSorted:
		cases, err := s.decodeCaseGotoSorted()
		if err != nil {
			return nil, err
		}
		instr.CaseEntries = cases

	case argClassCallFunc:
		var numArgs, index int64
		if s.smallCode {
			na, err := s.readU8()
			if err != nil {
				return nil, err
			}
			idx, err := s.readI16()
			if err != nil {
				return nil, err
			}
			numArgs, index = int64(na), int64(idx)
		} else {
			na, err := s.readI32()
			if err != nil {
				return nil, err
			}
			idx, err := s.readI32()
			if err != nil {
				return nil, err
			}
			numArgs, index = int64(na), int64(idx)
		}
		instr.Args = []int64{numArgs, index}

	default: // argClassDefault
		info := OpcodeTable[opcode]
		args := make([]int64, 0, info.NumArgs)
		for i := 0; i < info.NumArgs; i++ {
			v, err := s.readI32()
			if err != nil {
				return nil, err
			}
			args = append(args, int64(v))
		}
		instr.Args = args
	}

	return instr, nil
}

// readOpcode reads the opcode id per §4.6: 4-byte LE in wide mode,
// variable-length prefix in compact mode (byte b; if b < 240 opcode
// = b, else opcode = b + next byte; the boundary at exactly 240 is
// the dispatch trigger, per §8.3).
func (s *pcodeSegment) readOpcode() (int, error) {
	if !s.smallCode {
		v, err := s.readI32()
		if err != nil {
			return 0, err
		}
		return int(v), nil
	}
	b, err := s.readU8()
	if err != nil {
		return 0, err
	}
	if b < 240 {
		return int(b), nil
	}
	next, err := s.readU8()
	if err != nil {
		return 0, err
	}
	return int(b) + int(next), nil
}

// decodeCaseGotoSorted decodes CASEGOTOSORTED: pad the cursor to
// 4-byte alignment relative to the segment base, then count:i32, then
// count x (value:i32, target:i32), per §4.6/§8.3.
func (s *pcodeSegment) decodeCaseGotoSorted() ([]CaseEntry, error) {
	for (s.cursor-s.base)%4 != 0 {
		if _, err := s.readU8(); err != nil {
			return nil, err
		}
	}
	count, err := s.readI32()
	if err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, &IllFormedError{Offset: s.cursor, Reason: "negative casegotosorted count"}
	}
	cases := make([]CaseEntry, 0, count)
	for i := int32(0); i < count; i++ {
		casePC := s.cursor - s.base
		value, err := s.readI32()
		if err != nil {
			return nil, err
		}
		target, err := s.readI32()
		if err != nil {
			return nil, err
		}
		cases = append(cases, CaseEntry{PCOffset: casePC, Value: value, Target: target})
	}
	return cases, nil
}

// FormatInstruction renders one instruction per §4.6/§6.3:
// "{pc_offset:08d}> {mnemonic}{space-separated-arguments}\n", with
// CASEGOTOSORTED emitting one sub-line per case.
func FormatInstruction(instr *Instruction) string {
	if instr.Mnemonic == "casegotosorted" || len(instr.CaseEntries) > 0 {
		out := fmt.Sprintf("%08d> %s\n", instr.PCOffset, instr.Mnemonic)
		for _, c := range instr.CaseEntries {
			out += fmt.Sprintf("%08d>   case %d: %d\n", c.PCOffset, c.Value, c.Target)
		}
		return out
	}

	out := fmt.Sprintf("%08d> %s", instr.PCOffset, instr.Mnemonic)
	for _, a := range instr.Args {
		out += fmt.Sprintf(" %d", a)
	}
	out += "\n"
	return out
}
