// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package slice holds small generic helpers for playlist id sequences and
read-model rows.
*/
package slice

// Map applies transform to every element. A nil input stays nil.
func Map[T any, U any](input []T, transform func(T) U) []U {
	if input == nil {
		return nil
	}

	result := make([]U, len(input))
	for i, v := range input {
		result[i] = transform(v)
	}

	return result
}

// Filter keeps the elements for which predicate holds, preserving order.
// The result is never nil so it encodes as an empty JSON array.
func Filter[T any](input []T, predicate func(T) bool) []T {
	result := make([]T, 0, len(input))
	for _, v := range input {
		if predicate(v) {
			result = append(result, v)
		}
	}

	return result
}

// Contains reports whether value is in input.
func Contains[T comparable](input []T, value T) bool {
	for _, v := range input {
		if v == value {
			return true
		}
	}
	return false
}

// Without returns input minus every occurrence of value, in order.
func Without[T comparable](input []T, value T) []T {
	return Filter(input, func(v T) bool { return v != value })
}
