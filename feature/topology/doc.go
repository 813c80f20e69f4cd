// Package topology derives structure from raw interface and hostname facts.
//
// It answers three questions for the snapshot builder:
//   - What kind of interface is this? (Classify: LAG, bridge, physical with
//     a concrete inventory type, or other)
//   - Which interface is its parent? (ResolveParents: master relationships
//     with dangling masters dropped and loops broken)
//   - Where does this blade sit? (ParseBladeHost: chassis name and bay
//     number from the <chassis>b<bay> naming convention)
//
// The functions are pure so they can be tested without any observer or API.
package topology
