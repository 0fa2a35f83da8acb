package intrinsics

import (
	"context"

	"github.com/tetratelabs/wazero"

	"github.com/ardhipoetra/faasm/errors"
)

// Register builds the two host modules every guest links against —
// "wasi_snapshot_preview1" for the standard ABI and "env" for the legacy
// intrinsics and the chaining entry point — and instantiates them against
// rt. It must run once per Engine, before any guest module is instantiated.
func Register(ctx context.Context, rt wazero.Runtime) error {
	if _, err := rt.NewHostModuleBuilder("wasi_snapshot_preview1").
		NewFunctionBuilder().WithFunc(fdPrestatGet).Export("fd_prestat_get").
		NewFunctionBuilder().WithFunc(fdPrestatDirName).Export("fd_prestat_dir_name").
		NewFunctionBuilder().WithFunc(fdClose).Export("fd_close").
		NewFunctionBuilder().WithFunc(fdRead).Export("fd_read").
		NewFunctionBuilder().WithFunc(fdWrite).Export("fd_write").
		NewFunctionBuilder().WithFunc(fdSeek).Export("fd_seek").
		NewFunctionBuilder().WithFunc(fdTell).Export("fd_tell").
		NewFunctionBuilder().WithFunc(fdFdstatGet).Export("fd_fdstat_get").
		NewFunctionBuilder().WithFunc(fdFdstatSetFlags).Export("fd_fdstat_set_flags").
		NewFunctionBuilder().WithFunc(fdFilestatGet).Export("fd_filestat_get").
		NewFunctionBuilder().WithFunc(fdAdvise).Export("fd_advise").
		NewFunctionBuilder().WithFunc(fdReaddir).Export("fd_readdir").
		NewFunctionBuilder().WithFunc(pathOpen).Export("path_open").
		NewFunctionBuilder().WithFunc(pathCreateDirectory).Export("path_create_directory").
		NewFunctionBuilder().WithFunc(pathUnlinkFile).Export("path_unlink_file").
		NewFunctionBuilder().WithFunc(pathRemoveDirectory).Export("path_remove_directory").
		NewFunctionBuilder().WithFunc(pathRename).Export("path_rename").
		NewFunctionBuilder().WithFunc(pathReadlink).Export("path_readlink").
		NewFunctionBuilder().WithFunc(pathFilestatGet).Export("path_filestat_get").
		NewFunctionBuilder().WithFunc(clockTimeGet).Export("clock_time_get").
		NewFunctionBuilder().WithFunc(clockResGet).Export("clock_res_get").
		NewFunctionBuilder().WithFunc(argsGet).Export("args_get").
		NewFunctionBuilder().WithFunc(argsSizesGet).Export("args_sizes_get").
		NewFunctionBuilder().WithFunc(environGet).Export("environ_get").
		NewFunctionBuilder().WithFunc(environSizesGet).Export("environ_sizes_get").
		NewFunctionBuilder().WithFunc(randomGet).Export("random_get").
		NewFunctionBuilder().WithFunc(procExit).Export("proc_exit").
		NewFunctionBuilder().WithFunc(schedYield).Export("sched_yield").
		NewFunctionBuilder().WithFunc(pollOneoff).Export("poll_oneoff").
		NewFunctionBuilder().WithFunc(sockRecv).Export("sock_recv").
		NewFunctionBuilder().WithFunc(sockSend).Export("sock_send").
		NewFunctionBuilder().WithFunc(sockShutdown).Export("sock_shutdown").
		Instantiate(ctx); err != nil {
		return errors.Registration(errors.PhaseIntrinsic, "wasi_snapshot_preview1", "*", err)
	}

	if _, err := rt.NewHostModuleBuilder("env").
		NewFunctionBuilder().WithFunc(chainFunction).Export("chainFunction").
		NewFunctionBuilder().WithFunc(envDup).Export("dup").
		NewFunctionBuilder().WithFunc(envPuts).Export("puts").
		NewFunctionBuilder().WithFunc(envPutc).Export("putc").
		NewFunctionBuilder().WithFunc(envVfprintf).Export("vfprintf").
		NewFunctionBuilder().WithFunc(envBzero).Export("bzero").
		NewFunctionBuilder().WithFunc(syscallIoctl).Export("__syscall_ioctl").
		NewFunctionBuilder().WithFunc(syscallLlseek).Export("__syscall_llseek").
		NewFunctionBuilder().WithFunc(syscallWritev).Export("__syscall_writev").
		NewFunctionBuilder().WithFunc(syscallPoll).Export("__syscall_poll").
		NewFunctionBuilder().WithFunc(syscallOpen).Export("__syscall_open").
		NewFunctionBuilder().WithFunc(syscallClose).Export("__syscall_close").
		NewFunctionBuilder().WithFunc(syscallFutex).Export("__syscall_futex").
		NewFunctionBuilder().WithFunc(syscallSocketcall).Export("__syscall_socketcall").
		NewFunctionBuilder().WithFunc(gethostbyname).Export("_gethostbyname").
		NewFunctionBuilder().WithFunc(syscallExitGroup).Export("__syscall_exit_group").
		NewFunctionBuilder().WithFunc(syscallExit).Export("__syscall_exit").
		NewFunctionBuilder().WithFunc(syscallGettid).Export("__syscall_gettid").
		NewFunctionBuilder().WithFunc(syscallTkill).Export("__syscall_tkill").
		NewFunctionBuilder().WithFunc(syscallRtSigprocmask).Export("__syscall_rt_sigprocmask").
		NewFunctionBuilder().WithFunc(wavixGetNumArgs).Export("__wavix_get_num_args").
		NewFunctionBuilder().WithFunc(wavixGetArgLength).Export("__wavix_get_arg_length").
		NewFunctionBuilder().WithFunc(wavixGetArg).Export("__wavix_get_arg").
		Instantiate(ctx); err != nil {
		return errors.Registration(errors.PhaseIntrinsic, "env", "*", err)
	}

	return nil
}
