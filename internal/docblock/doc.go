// Package docblock parses the DocBlock that precedes a stored routine.
//
// # Format
//
// A DocBlock is a bracketed comment opened with /** and closed with */:
//
//	/**
//	 * Selects all users of a company.
//	 *
//	 * @param p_cmp_id The ID of the company.
//	 * @param p_usr_active Whether to select active users only.
//	 *                     Inactive users are skipped otherwise.
//	 *
//	 * @type   rows_with_index cmp_id,usr_role
//	 * @return map
//	 */
//
// Everything before the first tag is the description. A tag starts with @name;
// non-blank lines that follow a tag continue it and are joined with a newline.
// A blank line ends a tag.
//
// # Usage
//
//	block := docblock.FromSource(lines, dialect.IsRoutineStart)
//	for _, p := range block.Params() {
//	    fmt.Println(p.Name, p.Description)
//	}
package docblock
