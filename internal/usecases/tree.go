package usecases

import "infobot/internal/entities"

// Tree lookups are pure functions over a snapshot. Ids are assumed
// unique; on duplicates the first occurrence wins. Parent references
// are not validated: an item whose parent does not exist is simply
// unreachable from the root menu but still findable by id.

// FindByID returns the first item with the given id.
func FindByID(s entities.Snapshot, id string) (entities.Item, bool) {
	for _, item := range s {
		if item.ID == id {
			return item, true
		}
	}
	return entities.Item{}, false
}

// ChildrenOf returns all items whose parent equals id, in snapshot order.
func ChildrenOf(s entities.Snapshot, id string) []entities.Item {
	var children []entities.Item
	for _, item := range s {
		if item.Parent == id {
			children = append(children, item)
		}
	}
	return children
}

// Roots returns all items without a parent, in snapshot order.
func Roots(s entities.Snapshot) []entities.Item {
	var roots []entities.Item
	for _, item := range s {
		if item.Parent == "" {
			roots = append(roots, item)
		}
	}
	return roots
}
