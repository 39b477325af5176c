// main.go
//
// A retail marketplace backend: supplier price lists, catalog, basket and orders
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of Netology-final-diplom.
// Netology-final-diplom is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// Netology-final-diplom is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with Netology-final-diplom.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/somnambulistic-art/Netology-final-diplom/internal/config"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/database"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/services"
	"go.uber.org/zap"
)

func main() {
	// production logs go to stderr; stdout stays a single JSON document
	log, _ := zap.NewProduction()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load configuration", zap.Error(err))
	}

	db, err := database.Connect(cfg, zap.NewNop())
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	result := services.HealthCheck(cfg, db, log)

	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatal("failed to marshal health check result", zap.Error(err))
	}

	fmt.Println(string(output))

	// Exit with appropriate code
	if result.Status != "healthy" {
		os.Exit(1)
	}
	os.Exit(0)
}
