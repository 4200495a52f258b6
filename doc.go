/*
 * doc.go, part of goConformer.
 *
 * Copyright 2024 Raul Mera <rmeraa{at}academicosdotutadotcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

//Package conformer provides the structures and geometric operations for
//conformational analysis of flexible molecules and transition states:
//candidate structures with their atoms and coordinates, rotatable-bond
//(torsion), cis/trans and chirality descriptors, dihedral manipulation
//constrained to rotation masks, and pairwise-distance fingerprints used to
//tell conformers apart. The actual systematic search lives in the
//systematic subpackage; communication with external energy/optimization
//programs lives in calc.
package conformer
