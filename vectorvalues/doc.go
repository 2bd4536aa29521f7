// Package vectorvalues defines the per-document vector store contract that
// vecstream readers consume, together with in-memory implementations.
//
// A store holds at most one vector per document and exactly one Encoding.
// Access is cursor based:
//
//	it := values.Iterator()
//	for {
//	    doc, err := it.NextDoc()
//	    if err != nil { ... }
//	    if doc == model.NoMoreDocs {
//	        break
//	    }
//	    vec, err := values.VectorValue(doc)
//	    ...
//	}
//
// Every call to Iterator returns an independent cursor, so many readers can
// walk the same store. A single cursor is not safe for concurrent use.
package vectorvalues
