// Package geom provides the vector, matrix and rotation primitives used by the
// stretch engine.
//
// Points and directions are gonum vectors ([r2.Vec] in the plane, [r3.Vec] in
// space); rotations are plain angles in 2D and unit quaternions
// ([quat.Number]) in 3D. On top of those the package adds the handful of
// operations the engine needs and gonum does not ship:
//
//   - [AngleDiff] and [AngleAverage]: signed shorter-arc differences and
//     weighted circular means of angles.
//   - [Affine2]: a 2D affine matrix in [a, b, c, d, tx, ty] layout with a
//     translate ∘ rotate ∘ scale constructor ([Similarity2]).
//   - [Mat4]: a column-major homogeneous 4×4 matrix with the same
//     constructor for 3D ([Similarity3]).
//   - [RotationBetween], [Slerp] and [ChainSlerp]: quaternion helpers for
//     relating two directions and averaging rotations.
//
// # Rotation Averaging
//
// [ChainSlerp] is not a true weighted rotation mean (Karcher mean). It walks
// the quaternions in order and slerps the running result toward each one by
// its share of the cumulative weight. The result depends slightly on the
// order of the inputs; callers that need reproducible output must keep the
// order stable.
package geom
