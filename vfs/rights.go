package vfs

// Rights is a WASI capability bitmask. A descriptor carries a base mask
// (operations permitted directly on it) and an inheriting mask (the upper
// bound on rights a descendant descriptor opened through it may carry).
type Rights uint64

// See https://github.com/WebAssembly/WASI/blob/snapshot-01/phases/snapshot/docs.md#-rightsu64---flags
const (
	RightFDDatasync Rights = 1 << iota
	RightFDRead
	RightFDSeek
	RightFDFdstatSetFlags
	RightFDSync
	RightFDTell
	RightFDWrite
	RightFDAdvise
	RightFDAllocate
	RightPathCreateDirectory
	RightPathCreateFile
	RightPathLinkSource
	RightPathLinkTarget
	RightPathOpen
	RightFDReaddir
	RightPathReadlink
	RightPathRenameSource
	RightPathRenameTarget
	RightPathFilestatGet
	RightPathFilestatSetSize
	RightPathFilestatSetTimes
	RightFDFilestatGet
	RightFDFilestatSetSize
	RightFDFilestatSetTimes
	RightPathSymlink
	RightPathRemoveDirectory
	RightPathUnlinkFile
	RightPollFDReadwrite
	RightSockShutdown
	RightSockAccept
)

// RightsAll is the full capability set granted to preopened directory roots.
const RightsAll Rights = (1 << 30) - 1

// RightsRegularFile is the set clamped onto a freshly opened regular file
// when the caller's rights-inheriting mask is itself RightsAll; real
// clamping always intersects with the parent's inheriting mask per open().
const RightsRegularFile = RightFDRead | RightFDWrite | RightFDSeek | RightFDTell |
	RightFDDatasync | RightFDSync | RightFDAdvise | RightFDAllocate |
	RightFDFilestatGet | RightFDFilestatSetSize | RightFDFilestatSetTimes | RightPollFDReadwrite

// RightsDirectory is the set clamped onto a freshly opened directory.
const RightsDirectory = RightFDReaddir | RightPathOpen | RightPathCreateDirectory |
	RightPathCreateFile | RightPathUnlinkFile | RightPathRemoveDirectory |
	RightPathRenameSource | RightPathRenameTarget | RightPathFilestatGet |
	RightPathFilestatSetSize | RightPathFilestatSetTimes | RightPathLinkSource |
	RightPathLinkTarget | RightPathSymlink | RightPathReadlink |
	RightFDFilestatGet | RightFDFilestatSetTimes

// Has reports whether r carries every bit set in want.
func (r Rights) Has(want Rights) bool {
	return r&want == want
}

// Clamp intersects r with inheriting, the rights-inheriting mask of the
// directory a new descriptor was opened through.
func (r Rights) Clamp(inheriting Rights) Rights {
	return r & inheriting
}
