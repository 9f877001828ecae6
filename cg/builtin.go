package cg

// trim strips the blanks around a cell. The concatenation makes the result a
// plain string, so two String columns never compare as numbers.
const builtinAWK = `
function trim(s) {
  gsub(/^[ \t\r]+|[ \t\r]+$/, "", s)
  return s ""
}
`
