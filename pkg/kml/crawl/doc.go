// Package crawl walks a KML document tree and notifies listeners of every
// feature and style selector it meets.
//
// # Overview
//
// [Crawl] performs a pre-order depth-first walk from a root feature. Each
// visited node is delivered as an [Item] that pairs the node with an
// immutable copy of its ancestor chain, nearest ancestor first. Features
// (Document, Folder, Placemark) go to [Listener.OnFeature]; styles and
// style maps go to [Listener.OnStyleSelector]. Geometry and extended data
// never produce events.
//
// Within a container the walk visits child features first, then style
// selectors, both in insertion order. Listeners are called in registration
// order for each event.
//
// # Mutation During a Walk
//
// Before a container's members are visited, they are copied into a local
// snapshot and the walk iterates the snapshot. A listener may therefore
// remove the node it is being notified about, or any node already visited,
// from its parent's live member list without disturbing the walk:
//
//	crawl.Crawl(tree.Root, crawl.Funcs{
//	    Feature: func(it crawl.Item) error {
//	        if p, ok := it.Node.(*kml.Placemark); ok && drop(p) {
//	            it.Parent().Members().RemoveFeature(p)
//	        }
//	        return nil
//	    },
//	})
//
// Removing a node that has not been visited yet, at an ancestor level that
// is still being iterated, has no defined effect.
//
// # Leaving Containers
//
// A listener that also implements [LeaveListener] is told when a
// container's subtree is complete. Bottom-up passes such as empty-folder
// removal use this to judge a container after its children were pruned.
//
// # Stopping Early
//
// Returning [SkipChildren] from OnFeature for a container skips its
// members. Any other non-nil error aborts the walk and is returned by
// [Crawl].
package crawl
