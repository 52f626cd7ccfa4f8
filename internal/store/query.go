package store

import "strings"

// LikeEscape is the escape character used with LikePattern.
const LikeEscape = `\`

var likeReplacer = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// LikePattern turns a free-text search term into a substring pattern for
// LIKE/ILIKE with ESCAPE '\'. Wildcards typed by the user match literally.
func LikePattern(term string) string {
	return "%" + likeReplacer.Replace(term) + "%"
}
