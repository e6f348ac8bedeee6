package domain

// Gig is a sellable listing owned by the catalog collaborator. This core
// reads it and mutates only the two rating aggregate fields, which the
// Review Aggregator keeps exactly consistent with the surviving review set.
type Gig struct {
	ID         string  `json:"id" bson:"_id,omitempty"`
	OwnerID    string  `json:"owner_id" bson:"owner_id"`
	Title      string  `json:"title" bson:"title"`
	Price      float64 `json:"price" bson:"price"`
	TotalStars int     `json:"total_stars" bson:"total_stars"`
	StarNumber int     `json:"star_number" bson:"star_number"`
}

// Rating returns the derived average rating. ok is false when the gig has no
// reviews yet (never divides by zero).
func (g *Gig) Rating() (rating float64, ok bool) {
	if g.StarNumber == 0 {
		return 0, false
	}
	return float64(g.TotalStars) / float64(g.StarNumber), true
}
