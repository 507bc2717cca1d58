// Copyright 2026 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package batch drives resumable embedding runs over a slice of the
// author corpus.
//
// The driver processes one author at a time, skips authors whose
// embeddings already exist, and records per-author failures without
// aborting the run. Combined with a SaveFunc that checkpoints the
// corpus after each author, an interrupted run picks up where it left
// off: re-running the same range re-processes only the authors that
// were not finished.
package batch
