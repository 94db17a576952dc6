// Package project provides the handle through which dpx manipulates a single
// project directory.
//
// A Handle carries no state besides its path: the project name is the
// directory name, the group is the parent directory name and the lock state
// is the presence of a ".locked" marker inside the directory. Every query
// therefore reflects the filesystem at the moment it is made.
//
// Project Layout:
//
//	<group>/<project>/
//	  .locked
//	  README.md
//	  data/{raw,interim,processed,external}/   (data/db when requested)
//	  docs/{assets/,notes.txt}
//	  notebooks/<project>.ipynb
//	  references/sources.txt
//	  reports/figures/
//
// The lock marker is advisory. Handles do not coordinate between processes.
package project
