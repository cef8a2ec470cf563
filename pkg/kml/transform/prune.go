package transform

import (
	"github.com/matzehuels/kmltool/pkg/kml"
	"github.com/matzehuels/kmltool/pkg/kml/crawl"
)

// CountPlacemarks returns the number of placemarks in t, at any depth.
func CountPlacemarks(t *kml.Tree) int {
	n := 0
	_ = crawl.Crawl(t.Root, crawl.Funcs{Feature: func(it crawl.Item) error {
		if it.Node.Kind() == kml.KindPlacemark {
			n++
		}
		return nil
	}})
	return n
}

// KeepPlacemarkRange removes every placemark whose position in document
// order lies outside [start, end]. It returns the number removed.
func KeepPlacemarkRange(t *kml.Tree, start, end int) int {
	i := -1
	return RemovePlacemarks(t, func(*kml.Placemark) bool {
		i++
		return i < start || i > end
	})
}

// RemovePlacemarks removes every placemark for which drop returns true.
// drop is called once per placemark in document order.
func RemovePlacemarks(t *kml.Tree, drop func(*kml.Placemark) bool) int {
	removed := 0
	_ = crawl.Crawl(t.Root, crawl.Funcs{Feature: func(it crawl.Item) error {
		p, ok := it.Node.(*kml.Placemark)
		if !ok || !drop(p) {
			return nil
		}
		if parent := it.Parent(); parent != nil && parent.Members().RemoveFeature(p) {
			removed++
		}
		return nil
	}})
	return removed
}

// RemoveEmptyFolders removes folders without child features. A folder is
// judged once its own subtree is walked, so a folder whose only children
// were empty folders is removed too. Style selectors do not keep a folder.
func RemoveEmptyFolders(t *kml.Tree) int {
	removed := 0
	remove := func(it crawl.Item) {
		f := it.Node.(*kml.Folder)
		if len(f.Contents.Features) > 0 {
			return
		}
		if parent := it.Parent(); parent != nil && parent.Members().RemoveFeature(f) {
			removed++
		}
	}
	_ = crawl.Crawl(t.Root, crawl.Funcs{Leave: func(it crawl.Item) error {
		if it.Node.Kind() == kml.KindFolder {
			remove(it)
		}
		return nil
	}})
	return removed
}
