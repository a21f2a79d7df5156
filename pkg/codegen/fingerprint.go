package codegen

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"

	"github.com/cmlang/cmc/pkg/vm"
)

// Fingerprint returns a deterministic content hash of an instruction
// list, exercising property P5 (idempotence of emission): compiling the
// same program twice must yield the same fingerprint.
func Fingerprint(list vm.InstructionList) uint64 {
	h := xxhash.New()
	var buf [24]byte
	for _, instr := range list {
		binary.LittleEndian.PutUint64(buf[0:8], uint64(instr.Op))
		binary.LittleEndian.PutUint64(buf[8:16], instr.Imm64)
		binary.LittleEndian.PutUint32(buf[16:20], uint32(instr.Disp))
		buf[20] = byte(instr.SReg)
		buf[21] = byte(instr.DReg)
		buf[22] = byte(instr.Size)
		buf[23] = 0
		h.Write(buf[:])
	}
	return h.Sum64()
}
