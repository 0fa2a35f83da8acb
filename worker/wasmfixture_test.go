package worker

// echoWasm is a hand-assembled core WASM module exporting a 17-page (just
// over 1 MiB) memory and a "run" function that copies its input region to its output
// region and returns the input length unchanged. Equivalent WAT:
//
//	(module
//	  (memory (export "memory") 17)
//	  (func (export "run") (param $len i32) (result i32)
//	    (memory.copy (i32.const 1048576) (i32.const 0) (local.get $len))
//	    (local.get $len)))
var echoWasm = []byte{
	0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00, 0x01, 0x06, 0x01, 0x60,
	0x01, 0x7F, 0x01, 0x7F, 0x03, 0x02, 0x01, 0x00, 0x05, 0x03, 0x01, 0x00,
	0x11, 0x07, 0x10, 0x02, 0x06, 0x6D, 0x65, 0x6D, 0x6F, 0x72, 0x79, 0x02,
	0x00, 0x03, 0x72, 0x75, 0x6E, 0x00, 0x00, 0x0A, 0x13, 0x01, 0x11, 0x00,
	0x41, 0x80, 0x80, 0xC0, 0x00, 0x41, 0x00, 0x20, 0x00, 0xFC, 0x0A, 0x00,
	0x00, 0x20, 0x00, 0x0B,
}
