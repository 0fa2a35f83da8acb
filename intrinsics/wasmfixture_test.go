package intrinsics

// chainCallerWasm is a hand-assembled core WASM module that imports
// env.chainFunction, lays "next" at memory offset 0 and "payload" at offset
// 16, and exports "invoke", which calls chainFunction(0, 4, 16, 7) and
// returns its result. Equivalent WAT:
//
//	(module
//	  (import "env" "chainFunction" (func (param i32 i32 i32 i32) (result i32)))
//	  (memory (export "memory") 1)
//	  (data (i32.const 0) "next")
//	  (data (i32.const 16) "payload")
//	  (func (export "invoke") (result i32)
//	    (call 0 (i32.const 0) (i32.const 4) (i32.const 16) (i32.const 7))))
var chainCallerWasm = []byte{
	0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00, 0x01, 0x0D, 0x02, 0x60,
	0x04, 0x7F, 0x7F, 0x7F, 0x7F, 0x01, 0x7F, 0x60, 0x00, 0x01, 0x7F, 0x02,
	0x15, 0x01, 0x03, 0x65, 0x6E, 0x76, 0x0D, 0x63, 0x68, 0x61, 0x69, 0x6E,
	0x46, 0x75, 0x6E, 0x63, 0x74, 0x69, 0x6F, 0x6E, 0x00, 0x00, 0x03, 0x02,
	0x01, 0x01, 0x05, 0x03, 0x01, 0x00, 0x01, 0x07, 0x13, 0x02, 0x06, 0x6D,
	0x65, 0x6D, 0x6F, 0x72, 0x79, 0x02, 0x00, 0x06, 0x69, 0x6E, 0x76, 0x6F,
	0x6B, 0x65, 0x00, 0x01, 0x0B, 0x16, 0x02, 0x00, 0x41, 0x00, 0x0B, 0x04,
	0x6E, 0x65, 0x78, 0x74, 0x00, 0x41, 0x10, 0x0B, 0x07, 0x70, 0x61, 0x79,
	0x6C, 0x6F, 0x61, 0x64, 0x0A, 0x0E, 0x01, 0x0C, 0x00, 0x41, 0x00, 0x41,
	0x04, 0x41, 0x10, 0x41, 0x07, 0x10, 0x00, 0x0B,
}
