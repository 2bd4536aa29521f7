package vectorvalues

import (
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/vecstream/model"
)

type denseIterator struct {
	n   int
	doc model.DocID
}

// DenseIterator returns a cursor over the documents 0..n-1.
func DenseIterator(n int) DocIterator {
	return &denseIterator{n: n, doc: -1}
}

func (it *denseIterator) DocID() model.DocID { return it.doc }

func (it *denseIterator) NextDoc() (model.DocID, error) {
	if it.doc == model.NoMoreDocs {
		return model.NoMoreDocs, nil
	}
	next := it.doc + 1
	if int(next) >= it.n {
		it.doc = model.NoMoreDocs
	} else {
		it.doc = next
	}
	return it.doc, nil
}

type bitmapIterator struct {
	it  roaring.IntPeekable
	doc model.DocID
}

// BitmapIterator returns a cursor over the documents contained in docs, in
// ascending order. docs must not be modified while the cursor is in use.
func BitmapIterator(docs *roaring.Bitmap) DocIterator {
	if docs == nil {
		docs = roaring.New()
	}
	return &bitmapIterator{it: docs.Iterator(), doc: -1}
}

func (it *bitmapIterator) DocID() model.DocID { return it.doc }

func (it *bitmapIterator) NextDoc() (model.DocID, error) {
	if it.doc == model.NoMoreDocs {
		return model.NoMoreDocs, nil
	}
	if !it.it.HasNext() {
		it.doc = model.NoMoreDocs
		return it.doc, nil
	}
	it.doc = model.DocID(it.it.Next())
	return it.doc, nil
}
