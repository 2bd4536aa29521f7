// Package fs abstracts the file system writes of the local blob store so
// that tests can inject failures.
//
// Production code uses fs.Default ([LocalFS]). Tests wrap it in [FaultyFS]:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule(".vseg", fs.Fault{FailAfterBytes: 1024})
//	store := blobstore.NewLocalStoreFS(dir, ffs)
//
// Reads do not go through this package; local blobs are memory mapped.
package fs
