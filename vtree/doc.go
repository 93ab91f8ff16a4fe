/*
Package vtree implements a generic recursive value tree
(null / bool / number / string / array / object) together with a
structural diff over such trees.

The same tree type serves two purposes: decoded font-table data is
represented as a value tree, and the result of diffing two such trees is
again a value tree. Diff output therefore serializes like any other
value and may even be re-diffed.

Object nodes preserve key insertion order. Trees are built once and
never mutated afterwards; the diff routines treat them as immutable.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package vtree
