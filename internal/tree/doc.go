// Package tree materializes declarative folder/file layouts on disk.
//
// A Spec maps entry names to Nodes. A Node is either a Folder with its own
// Spec or a File of a given kind:
//
//	tree.Spec{
//	    "data": tree.Folder(tree.Spec{
//	        "raw": tree.Folder(nil),
//	    }),
//	    "README.md": tree.File(),
//	    "analysis.ipynb": tree.NotebookFile(),
//	}
//
// Names with a non-empty extension ("notes.txt", ".locked") must be files and
// every other name must be a folder. Materialize is create-if-absent for both
// folders and files, so running it twice yields the same tree and never
// truncates existing content.
package tree
