// Package spec provides the YAML schema, parsing and validation of the
// projection specification file.
//
// The file attaches projection specs to entity types. The first spec of an
// entity is its implicit default: it is never emitted, but supplies property
// descriptions to every named spec of the same entity and to entities that
// extend it.
//
// # Schema Overview
//
//	version: "1"
//	containers:                      # generic container families
//	  example.com/app/pkg/set.Set: set
//	basic_types:                     # extra single-valued attribute types
//	  - example.com/app/geo.Point
//	entities:
//	  - type: entity.User            # short or fully qualified type id
//	    meta_complete: false
//	    specs:
//	      - descr: a registered user   # default spec
//	        props:
//	          - name: Name
//	            descr: display name
//	      - namespace: backend.add     # -> backend/dto.AddUserDTO
//	        kind: DTO
//	        props:
//	          - name: Name
//	            hash: true
//	            rules:
//	              - NotBlank
//	              - [Size, "", "1", "20"]
//	              - {kind: Pattern, msg: letters only, opts: ["^[a-z]+$"]}
//	        extra:
//	          - name: Captcha
//	            imports: string
//	          - name: Labels
//	            imports: [example.com/app/tag.Tag, time.Time]
//	            type_declare: map[tag.Tag]time.Time
//
// # Rules
//
// Rule kinds and their option slots come from a fixed table (see rules.go).
// Options are positional; a blank option is left out of the rendered
// constraint. Valid never renders a message.
package spec
