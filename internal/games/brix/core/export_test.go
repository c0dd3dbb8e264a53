package core

// SetChaining lets tests prepare chaining blocks directly.
func SetChaining(b *Physical, chaining bool) {
	b.chaining = chaining
}

// TagOccupant lets tests mark occupants the way classifier passes do.
func TagOccupant(o *Physical, t Tag) {
	o.tag(t)
}
