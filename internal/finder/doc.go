// Package finder compiles repository method names into query plans.
//
// A method such as
//
//	findByLastNameAndAgeGreaterThanOrderByAgeDesc(lastName, age)
//
// is matched against a naming strategy (find, count, exists, delete),
// split into a projection prefix, a clause sequence and an optional
// OrderBy suffix, and assembled into a queryir.Query:
//
//	find Person WHERE lastName = :lastName AND age > :age ORDER BY age desc -> entity<Person>
//
// Compilation is pure: it reads entity metadata, allocates a fresh plan
// and never logs or caches. A Compiler is safe for concurrent use.
//
// GRAMMAR:
//
//	method     = prefix modifier "By" clauses [ "OrderBy" orders ]
//	clauses    = clause { ("And" | "Or") clause }
//	clause     = Property [ "Not" ] [ Keyword ]
//	orders     = Property [ "Asc" | "Desc" ] { [ "And" ] Property [ "Asc" | "Desc" ] }
//
// Only one boolean operator kind is honoured per clause sequence. And is
// tried before Or; the first one found splits the sequence and any other
// operator text stays part of a property name.
//
// ERRORS:
//
// Failures are *CompileError values carrying a Reason. A Reason of
// NoMatch (ErrNoMatch) means the strategy declined the name and is not a
// failure of the method itself.
package finder
