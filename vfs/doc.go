// Package vfs sits between the FD table and the host OS. See Table and VFS.
package vfs
