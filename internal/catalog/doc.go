// Package catalog reads the album tree from disk.
//
// Each immediate subdirectory of the album root is an album and each file
// inside it is a photo. Entries on the skip-list (sync-tool folders and OS
// metadata files) are never returned. Nothing is cached here: every call
// reads the directory again, so listings always reflect the current state of
// the filesystem.
//
// Errors are reported as ErrNotFound, ErrIO or ErrInvalidName, wrapped with
// context, and should be matched with errors.Is.
package catalog
