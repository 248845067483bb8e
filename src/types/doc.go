// Package types contains the session scoped type store. A Builder is the only
// value that ever creates or links type records, and it writes them into a Table
// laid out as parallel columns so that flag scans touch one array instead of
// chasing pointers. Everything read side lives on Table, everything write side
// lives on Builder, and all identity decisions happen at creation time through
// interning. Intrinsics intern by name, literals intern by value with a linked
// fresh and regular pair, unions intern by their normalized member set. Because
// records never change after creation, a Table may be read from many goroutines
// once its owner has stopped building.
// One sidenote is that TypeIDs are only comparable within the session that made
// them. Two sessions will hand out the same integers for different types, so a
// TypeID must never be stored past the Table it came from.
package types //nolint:revive
