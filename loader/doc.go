// Package loader reads hierarchy definition documents.
//
// A definition document is YAML with three sections. The version section
// names the document format. The hierarchy section declares entities and
// their parent links. The registry section lists the occurrence sequence
// by entity ID, in order, duplicates allowed.
//
//	version: 1
//	hierarchy:
//	  - id: A
//	  - id: B
//	    parents: [A]
//	registry: [B, A, B]
//
// # Usage
//
//	def, err := loader.LoadFile("hierarchy.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	reg, err := def.NewRegistry()
//
// Several documents can be merged with LoadDir or LoadFS; a document's
// registry section may reference entities declared in another document,
// so occurrence validity is checked when the merged result is applied.
package loader
