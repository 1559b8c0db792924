package util

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/exp/constraints"
)

// GatherPaths walks root for files with one of the given extensions, in
// lexical order. maxNum of 0 means no limit.
func GatherPaths(root string, maxNum int, exts ...string) ([]string, error) {
	var res []string
	walk := func(s string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || (maxNum > 0 && len(res) >= maxNum) {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(s))
		for _, e := range exts {
			if ext == e {
				res = append(res, s)
				break
			}
		}
		return nil
	}
	err := filepath.WalkDir(root, walk)
	return res, err
}

func GetKeys[A constraints.Ordered, B any](m map[A]B) []A {
	keys := make([]A, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

// SortedKeys is GetKeys in ascending order. Timeline offsets are map keys in a
// few places and have to be walked in score order.
func SortedKeys[A constraints.Ordered, B any](m map[A]B) []A {
	keys := GetKeys(m)
	sort.Slice(keys, func(i, j int) bool {
		return keys[i] < keys[j]
	})
	return keys
}

// Mod is the euclidean remainder, always in [0, m).
func Mod[A constraints.Integer](n A, m A) A {
	r := n % m
	if r < 0 {
		r += m
	}
	return r
}

func Min[A constraints.Integer](num1 A, num2 A) A {
	if num1 > num2 {
		return num2
	}
	return num1
}

func MinOf[A constraints.Ordered](nums []A) A {
	var res A
	for i, v := range nums {
		if i == 0 || v < res {
			res = v
		}
	}
	return res
}

func MaxOf[A constraints.Ordered](nums []A) A {
	var res A
	for i, v := range nums {
		if i == 0 || v > res {
			res = v
		}
	}
	return res
}
