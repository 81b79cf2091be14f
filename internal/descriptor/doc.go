// Package descriptor parses the text descriptor of a model container and
// resolves the categorical domains it references.
//
// The descriptor is a small ini-like file with three mandatory sections:
//
//	[info]
//	n_columns = 3
//	algorithm = Gradient Boosting Machine
//	mojo_version = 1.00
//	n_classes = 2
//	[columns]
//	sepal_len
//	species
//	class
//	[domains]
//	1: 3 d000.txt
//	2: 2 d001.txt
//
// Values in [info] are auto-typed (integer, float, boolean, numeric array, null,
// then string). Domain references point at text entries under "domains/", one
// label per line.
package descriptor
