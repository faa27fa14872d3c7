// Package schedule orders the emission of registered types.
//
// Directly declared entities are emitted in discovery order. Embeddables
// are discovered while other types are resolved and go through a
// fixed-point loop: each round defers every pending embeddable that another
// pending one still reaches, and emits the rest. A round that emits nothing
// ends the loop with a potential_endless_loop diagnostic naming the types
// left behind.
package schedule
